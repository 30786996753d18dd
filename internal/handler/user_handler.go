package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"cheesemarket/internal/policy"
	"cheesemarket/internal/security"
	"cheesemarket/internal/serializer"
	"cheesemarket/internal/service"
)

// UserHandler bundles the user resource endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates the user handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create godoc
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body serializer.UserInput true "User payload"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var in serializer.UserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p := security.FromContext(c)
	user, err := h.svc.Create(c.Request().Context(), &in, p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("user", policy.Read, policy.Collection, "post")
	return c.JSON(http.StatusCreated, serializer.User(user, groups, p))
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body serializer.UserInput true "User payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in serializer.UserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p := security.FromContext(c)
	user, err := h.svc.Update(c.Request().Context(), id, &in, p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("user", policy.Read, policy.Item, "put")
	return c.JSON(http.StatusOK, serializer.User(user, groups, p))
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p := security.FromContext(c)
	user, err := h.svc.Get(c.Request().Context(), id, p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("user", policy.Read, policy.Item, "get")
	return c.JSON(http.StatusOK, serializer.User(user, groups, p))
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	p := security.FromContext(c)
	users, err := h.svc.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	groups := policy.OperationGroups("user", policy.Read, policy.Collection, "get")
	out := make([]map[string]any, 0, len(users))
	for i := range users {
		out = append(out, serializer.User(&users[i], groups, p))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
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

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
