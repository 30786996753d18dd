package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cheesemarket/internal/apperrors"
	"cheesemarket/internal/metrics"
	"cheesemarket/internal/model"
	"cheesemarket/internal/policy"
	"cheesemarket/internal/repository"
	"cheesemarket/internal/security"
	"cheesemarket/internal/serializer"
	"cheesemarket/internal/validation"
)

// Owner constraint messages.
const (
	ownerMismatchMessage  = "Cannot set owner to a different user"
	ownerAnonymousMessage = "Cannot set owner unless you are authenticated"
)

// CheeseListingService exposes the cheese resource operations. Reads are
// public but limited to published listings; writes go through the
// authorization policy and the owner pipeline.
type CheeseListingService interface {
	Create(ctx context.Context, in *serializer.CheeseListingInput, p *security.Principal) (*model.CheeseListing, error)
	Update(ctx context.Context, id uint, in *serializer.CheeseListingInput, p *security.Principal) (*model.CheeseListing, error)
	Get(ctx context.Context, id uint, p *security.Principal) (*model.CheeseListing, error)
	List(ctx context.Context, p *security.Principal) ([]model.CheeseListing, error)
	Delete(ctx context.Context, id uint, p *security.Principal) error
}

type cheeseListingService struct {
	repo repository.CheeseListingRepository
}

// NewCheeseListingService builds a CheeseListingService over the given repository.
func NewCheeseListingService(repo repository.CheeseListingRepository) CheeseListingService {
	return &cheeseListingService{repo: repo}
}

// Create runs the pre-persist pipeline after merging the payload: the
// authenticated principal becomes the owner when none was supplied, then the
// owner constraint is validated against the principal.
func (s *cheeseListingService) Create(ctx context.Context, in *serializer.CheeseListingInput, p *security.Principal) (*model.CheeseListing, error) {
	action := policy.Action{Resource: policy.ResourceCheese, Cardinality: policy.Collection, Operation: policy.OpPost}
	if err := policy.Authorize(action, p, nil); err != nil {
		return nil, err
	}

	listing := &model.CheeseListing{}
	groups := policy.OperationGroups("cheese", policy.Write, policy.Collection, "post")
	serializer.ApplyCheeseListing(listing, in, groups, p)

	assignOwner(listing, p)

	violations := validateOwner(listing.OwnerID, p, nil)
	violations = append(violations, validation.Struct(listing)...)
	if len(violations) > 0 {
		return nil, violations
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create cheese listing: %w", err)
	}
	metrics.ListingsCreatedTotal.Inc()

	// Reload with the owner association for serialization.
	return s.findByID(ctx, listing.ID)
}

// Update authorizes against the pre-update record: only an admin or the
// listing's current owner may write, and the owner field itself is not
// writable outside creation.
func (s *cheeseListingService) Update(ctx context.Context, id uint, in *serializer.CheeseListingInput, p *security.Principal) (*model.CheeseListing, error) {
	target, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action := policy.Action{Resource: policy.ResourceCheese, Cardinality: policy.Item, Operation: policy.OpPut}
	if err := policy.Authorize(action, p, target); err != nil {
		return nil, err
	}

	groups := policy.OperationGroups("cheese", policy.Write, policy.Item, "put")
	serializer.ApplyCheeseListing(target, in, groups, p)

	violations := validateOwner(target.OwnerID, p, nil)
	violations = append(violations, validation.Struct(target)...)
	if len(violations) > 0 {
		return nil, violations
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("update cheese listing: %w", err)
	}
	return target, nil
}

// Get returns a published listing. Unpublished listings are reported as
// missing for everyone, their owner included, so their existence never leaks.
func (s *cheeseListingService) Get(ctx context.Context, id uint, p *security.Principal) (*model.CheeseListing, error) {
	action := policy.Action{Resource: policy.ResourceCheese, Cardinality: policy.Item, Operation: policy.OpGet}
	if err := policy.Authorize(action, p, nil); err != nil {
		return nil, err
	}

	listing, err := s.repo.FindPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *cheeseListingService) List(ctx context.Context, p *security.Principal) ([]model.CheeseListing, error) {
	action := policy.Action{Resource: policy.ResourceCheese, Cardinality: policy.Collection, Operation: policy.OpGet}
	if err := policy.Authorize(action, p, nil); err != nil {
		return nil, err
	}
	return s.repo.ListPublished(ctx)
}

func (s *cheeseListingService) Delete(ctx context.Context, id uint, p *security.Principal) error {
	action := policy.Action{Resource: policy.ResourceCheese, Cardinality: policy.Item, Operation: policy.OpDelete}
	if err := policy.Authorize(action, p, nil); err != nil {
		return err
	}
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *cheeseListingService) findByID(ctx context.Context, id uint) (*model.CheeseListing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// assignOwner is the pre-persist stage: a listing created without an owner
// by an authenticated principal belongs to that principal.
func assignOwner(listing *model.CheeseListing, p *security.Principal) {
	if listing.OwnerID != 0 {
		return
	}
	if p != nil {
		listing.OwnerID = p.UserID
	}
}

// validateOwner implements the owner constraint:
//   - empty value: no violation, field absence is handled elsewhere
//   - value set by an anonymous caller: violation
//   - admin caller: no violation regardless of value
//   - otherwise the value must be the principal's own id
func validateOwner(ownerID uint, p *security.Principal, violations validation.Violations) validation.Violations {
	if ownerID == 0 {
		return violations
	}
	if p == nil {
		return violations.Add("owner", ownerAnonymousMessage)
	}
	if p.IsAdmin() {
		return violations
	}
	if ownerID != p.UserID {
		return violations.Add("owner", ownerMismatchMessage)
	}
	return violations
}
