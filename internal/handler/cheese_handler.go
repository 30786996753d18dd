package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cheesemarket/internal/policy"
	"cheesemarket/internal/security"
	"cheesemarket/internal/serializer"
	"cheesemarket/internal/service"
)

// CheeseHandler bundles the cheese listing resource endpoints.
type CheeseHandler struct {
	svc service.CheeseListingService
}

// NewCheeseHandler creates the cheese handler layer.
func NewCheeseHandler(svc service.CheeseListingService) *CheeseHandler {
	return &CheeseHandler{svc: svc}
}

// Create godoc
// @Summary Create a cheese listing
// @Tags cheeses
// @Accept json
// @Produce json
// @Param cheese body serializer.CheeseListingInput true "Listing payload"
// @Success 201 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /cheeses [post]
func (h *CheeseHandler) Create(c echo.Context) error {
	var in serializer.CheeseListingInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p := security.FromContext(c)
	listing, err := h.svc.Create(c.Request().Context(), &in, p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("cheese", policy.Read, policy.Collection, "post")
	return c.JSON(http.StatusCreated, serializer.CheeseListing(listing, groups, p))
}

// Update godoc
// @Summary Update a cheese listing
// @Tags cheeses
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Param cheese body serializer.CheeseListingInput true "Listing payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /cheeses/{id} [put]
func (h *CheeseHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in serializer.CheeseListingInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p := security.FromContext(c)
	listing, err := h.svc.Update(c.Request().Context(), id, &in, p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("cheese", policy.Read, policy.Item, "put")
	return c.JSON(http.StatusOK, serializer.CheeseListing(listing, groups, p))
}

// Get godoc
// @Summary Get a published cheese listing
// @Tags cheeses
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /cheeses/{id} [get]
func (h *CheeseHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p := security.FromContext(c)
	listing, err := h.svc.Get(c.Request().Context(), id, p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("cheese", policy.Read, policy.Item, "get")
	return c.JSON(http.StatusOK, serializer.CheeseListing(listing, groups, p))
}

// List godoc
// @Summary List published cheese listings
// @Tags cheeses
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Router /cheeses [get]
func (h *CheeseHandler) List(c echo.Context) error {
	p := security.FromContext(c)
	listings, err := h.svc.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("cheese", policy.Read, policy.Collection, "get")
	out := make([]map[string]any, 0, len(listings))
	for i := range listings {
		out = append(out, serializer.CheeseListing(&listings[i], groups, p))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary Delete a cheese listing
// @Tags cheeses
// @Param id path int true "Listing ID"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cheeses/{id} [delete]
func (h *CheeseHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p := security.FromContext(c)
	if err := h.svc.Delete(c.Request().Context(), id, p); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
