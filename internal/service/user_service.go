package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
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

const bcryptCost = bcrypt.DefaultCost

const duplicateMessage = "This value is already used."

// UserService exposes the user resource operations. Every method runs the
// authorization policy before anything else.
type UserService interface {
	Create(ctx context.Context, in *serializer.UserInput, p *security.Principal) (*model.User, error)
	Update(ctx context.Context, id uint, in *serializer.UserInput, p *security.Principal) (*model.User, error)
	Get(ctx context.Context, id uint, p *security.Principal) (*model.User, error)
	List(ctx context.Context, p *security.Principal) ([]model.User, error)
	Delete(ctx context.Context, id uint, p *security.Principal) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService over the given repository.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Create is open to anonymous callers (self-registration). A plaintext
// password is required on creation; it is hashed and discarded before the
// record is persisted.
func (s *userService) Create(ctx context.Context, in *serializer.UserInput, p *security.Principal) (*model.User, error) {
	action := policy.Action{Resource: policy.ResourceUser, Cardinality: policy.Collection, Operation: policy.OpPost}
	if err := policy.Authorize(action, p, nil); err != nil {
		return nil, err
	}

	user := &model.User{Roles: model.RoleList{}}
	groups := policy.OperationGroups("user", policy.Write, policy.Collection, "post")
	plain := serializer.ApplyUser(user, in, groups, p)

	violations := validation.Struct(user)
	if plain == "" {
		violations = violations.Add("password", "This value should not be blank.")
	}
	violations, err := s.checkUnique(ctx, user, violations)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, violations
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersCreatedTotal.Inc()
	return user, nil
}

// Update lets a user modify their own record. Role changes are dropped for
// non-admin writers by the group filter; a supplied password is rehashed, an
// absent one leaves the stored hash untouched.
func (s *userService) Update(ctx context.Context, id uint, in *serializer.UserInput, p *security.Principal) (*model.User, error) {
	target, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action := policy.Action{Resource: policy.ResourceUser, Cardinality: policy.Item, Operation: policy.OpPut}
	if err := policy.Authorize(action, p, target); err != nil {
		return nil, err
	}

	prevEmail, prevUsername := target.Email, target.Username

	groups := policy.OperationGroups("user", policy.Write, policy.Item, "put")
	plain := serializer.ApplyUser(target, in, groups, p)

	violations := validation.Struct(target)
	if target.Email != prevEmail || target.Username != prevUsername {
		violations, err = s.checkUnique(ctx, target, violations)
		if err != nil {
			return nil, err
		}
	}
	if len(violations) > 0 {
		return nil, violations
	}

	if plain != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		target.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return target, nil
}

func (s *userService) Get(ctx context.Context, id uint, p *security.Principal) (*model.User, error) {
	action := policy.Action{Resource: policy.ResourceUser, Cardinality: policy.Item, Operation: policy.OpGet}
	if err := policy.Authorize(action, p, nil); err != nil {
		return nil, err
	}
	return s.findByID(ctx, id)
}

func (s *userService) List(ctx context.Context, p *security.Principal) ([]model.User, error) {
	action := policy.Action{Resource: policy.ResourceUser, Cardinality: policy.Collection, Operation: policy.OpGet}
	if err := policy.Authorize(action, p, nil); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *userService) Delete(ctx context.Context, id uint, p *security.Principal) error {
	action := policy.Action{Resource: policy.ResourceUser, Cardinality: policy.Item, Operation: policy.OpDelete}
	if err := policy.Authorize(action, p, nil); err != nil {
		return err
	}
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *userService) findByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// checkUnique enforces the global uniqueness of email and username.
func (s *userService) checkUnique(ctx context.Context, user *model.User, violations validation.Violations) (validation.Violations, error) {
	if user.Email != "" {
		existing, err := s.repo.FindByEmail(ctx, user.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email uniqueness: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			violations = violations.Add("email", duplicateMessage)
		}
	}
	if user.Username != "" {
		existing, err := s.repo.FindByUsername(ctx, user.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check username uniqueness: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			violations = violations.Add("username", duplicateMessage)
		}
	}
	return violations, nil
}
