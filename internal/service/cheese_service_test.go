package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cheesemarket/internal/apperrors"
	"cheesemarket/internal/model"
	"cheesemarket/internal/serializer"
)

// MockCheeseListingRepository is a mock implementation of CheeseListingRepository.
type MockCheeseListingRepository struct {
	mock.Mock
}

func (m *MockCheeseListingRepository) Create(ctx context.Context, listing *model.CheeseListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockCheeseListingRepository) Update(ctx context.Context, listing *model.CheeseListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockCheeseListingRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCheeseListingRepository) FindByID(ctx context.Context, id uint) (*model.CheeseListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheeseListing), args.Error(1)
}

func (m *MockCheeseListingRepository) FindPublishedByID(ctx context.Context, id uint) (*model.CheeseListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheeseListing), args.Error(1)
}

func (m *MockCheeseListingRepository) ListPublished(ctx context.Context) ([]model.CheeseListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CheeseListing), args.Error(1)
}

func intp(i int) *int    { return &i }
func uintp(u uint) *uint { return &u }

func listingInput() *serializer.CheeseListingInput {
	return &serializer.CheeseListingInput{
		Title:       strp("Block of cheddar"),
		Description: strp("aged twelve months"),
		Price:       intp(1000),
	}
}

func TestCheeseListingService_Create(t *testing.T) {
	t.Run("anonymous callers are rejected", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)

		svc := NewCheeseListingService(mockRepo)
		_, err := svc.Create(context.Background(), listingInput(), nil)

		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("owner defaults to the authenticated principal", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.CheeseListing")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.CheeseListing).ID = 5
			}).
			Return(nil)
		mockRepo.On("FindByID", mock.Anything, uint(5)).
			Return(&model.CheeseListing{ID: 5, Title: "Block of cheddar", OwnerID: 7}, nil)

		svc := NewCheeseListingService(mockRepo)
		listing, err := svc.Create(context.Background(), listingInput(), asUser(7))

		require.NoError(t, err)
		assert.Equal(t, uint(7), listing.OwnerID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("explicit owner must match the principal", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)

		in := listingInput()
		in.Owner = uintp(2)

		svc := NewCheeseListingService(mockRepo)
		_, err := svc.Create(context.Background(), in, asUser(7))

		assert.Contains(t, violationPaths(t, err), "owner")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("admins may create for another user", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.CheeseListing")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.CheeseListing).ID = 6
			}).
			Return(nil)
		mockRepo.On("FindByID", mock.Anything, uint(6)).
			Return(&model.CheeseListing{ID: 6, OwnerID: 2}, nil)

		in := listingInput()
		in.Owner = uintp(2)

		svc := NewCheeseListingService(mockRepo)
		listing, err := svc.Create(context.Background(), in, asUser(3, model.RoleAdmin))

		require.NoError(t, err)
		assert.Equal(t, uint(2), listing.OwnerID)
	})

	t.Run("blank fields are violations", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)

		svc := NewCheeseListingService(mockRepo)
		_, err := svc.Create(context.Background(), &serializer.CheeseListingInput{}, asUser(7))

		paths := violationPaths(t, err)
		assert.Contains(t, paths, "title")
		assert.Contains(t, paths, "description")
		assert.Contains(t, paths, "price")
	})
}

func TestCheeseListingService_Update(t *testing.T) {
	stored := func() *model.CheeseListing {
		return &model.CheeseListing{
			ID:          5,
			Title:       "Block of cheddar",
			Description: "aged",
			Price:       1000,
			IsPublished: false,
			OwnerID:     7,
		}
	}

	t.Run("non-owners are forbidden", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(stored(), nil)

		svc := NewCheeseListingService(mockRepo)
		_, err := svc.Update(context.Background(), 5, listingInput(), asUser(2))

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("the owner may update an unpublished listing", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(stored(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.CheeseListing")).Return(nil)

		in := listingInput()
		in.Price = intp(2000)

		svc := NewCheeseListingService(mockRepo)
		listing, err := svc.Update(context.Background(), 5, in, asUser(7))

		require.NoError(t, err)
		assert.Equal(t, 2000, listing.Price)
		mockRepo.AssertExpectations(t)
	})

	t.Run("admins may update anyone's listing", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(stored(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.CheeseListing")).Return(nil)

		svc := NewCheeseListingService(mockRepo)
		listing, err := svc.Update(context.Background(), 5, listingInput(), asUser(3, model.RoleAdmin))

		require.NoError(t, err)
		assert.Equal(t, "Block of cheddar", listing.Title)
	})

	t.Run("owner field cannot be reassigned", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(stored(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.CheeseListing")).Return(nil)

		in := listingInput()
		in.Owner = uintp(2)

		svc := NewCheeseListingService(mockRepo)
		listing, err := svc.Update(context.Background(), 5, in, asUser(7))

		require.NoError(t, err)
		assert.Equal(t, uint(7), listing.OwnerID)
	})

	t.Run("missing listing maps to not found", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewCheeseListingService(mockRepo)
		_, err := svc.Update(context.Background(), 99, listingInput(), asUser(7))

		assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
	})
}

func TestCheeseListingService_Get(t *testing.T) {
	t.Run("published listings are public", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindPublishedByID", mock.Anything, uint(5)).
			Return(&model.CheeseListing{ID: 5, IsPublished: true, OwnerID: 7}, nil)

		svc := NewCheeseListingService(mockRepo)
		listing, err := svc.Get(context.Background(), 5, nil)

		require.NoError(t, err)
		assert.Equal(t, uint(5), listing.ID)
	})

	t.Run("unpublished listings stay hidden from their owner", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindPublishedByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewCheeseListingService(mockRepo)
		_, err := svc.Get(context.Background(), 5, asUser(7))

		assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
	})
}

func TestCheeseListingService_List(t *testing.T) {
	mockRepo := new(MockCheeseListingRepository)
	mockRepo.On("ListPublished", mock.Anything).
		Return([]model.CheeseListing{{ID: 1, IsPublished: true}}, nil)

	svc := NewCheeseListingService(mockRepo)
	listings, err := svc.List(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, listings, 1)
	mockRepo.AssertExpectations(t)
}

func TestCheeseListingService_Delete(t *testing.T) {
	t.Run("owners cannot delete", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)

		svc := NewCheeseListingService(mockRepo)
		err := svc.Delete(context.Background(), 5, asUser(7))

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admins delete any listing", func(t *testing.T) {
		mockRepo := new(MockCheeseListingRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.CheeseListing{ID: 5, OwnerID: 7}, nil)
		mockRepo.On("Delete", mock.Anything, uint(5)).Return(nil)

		svc := NewCheeseListingService(mockRepo)
		err := svc.Delete(context.Background(), 5, asUser(3, model.RoleAdmin))

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
