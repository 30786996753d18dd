package repository

import (
	"context"

	"gorm.io/gorm"

	"cheesemarket/internal/model"
)

// CheeseListingRepository defines listing persistence operations.
type CheeseListingRepository interface {
	Create(ctx context.Context, listing *model.CheeseListing) error
	Update(ctx context.Context, listing *model.CheeseListing) error
	Delete(ctx context.Context, id uint) error
	// FindByID loads a listing regardless of publication state; the write
	// path needs the pre-update record for its ownership check.
	FindByID(ctx context.Context, id uint) (*model.CheeseListing, error)
	// FindPublishedByID loads a listing only if it is published.
	FindPublishedByID(ctx context.Context, id uint) (*model.CheeseListing, error)
	ListPublished(ctx context.Context) ([]model.CheeseListing, error)
}

type cheeseListingRepository struct {
	db *gorm.DB
}

// NewCheeseListingRepository builds a GORM-backed listing repository.
func NewCheeseListingRepository(db *gorm.DB) CheeseListingRepository {
	return &cheeseListingRepository{db: db}
}

func (r *cheeseListingRepository) Create(ctx context.Context, listing *model.CheeseListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *cheeseListingRepository) Update(ctx context.Context, listing *model.CheeseListing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *cheeseListingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.CheeseListing{}, id).Error
}

func (r *cheeseListingRepository) FindByID(ctx context.Context, id uint) (*model.CheeseListing, error) {
	var listing model.CheeseListing
	if err := r.db.WithContext(ctx).Preload("Owner").First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *cheeseListingRepository) FindPublishedByID(ctx context.Context, id uint) (*model.CheeseListing, error) {
	var listing model.CheeseListing
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("is_published = ?", true).
		First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *cheeseListingRepository) ListPublished(ctx context.Context) ([]model.CheeseListing, error) {
	var listings []model.CheeseListing
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("is_published = ?", true).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
