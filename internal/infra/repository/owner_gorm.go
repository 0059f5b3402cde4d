package repository

import (
	"context"
	"errors"

	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"gorm.io/gorm"
)

type OwnerGormRepository struct {
	db *gorm.DB
}

func NewOwnerGormRepository(db *gorm.DB) *OwnerGormRepository {
	return &OwnerGormRepository{db: db}
}

func (r *OwnerGormRepository) Create(ctx context.Context, owner model.Owner) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&owner).Error; err != nil {
		return 0, err
	}
	return owner.ID, nil
}

func (r *OwnerGormRepository) FindByID(ctx context.Context, ownerID int64) (model.Owner, error) {
	var o model.Owner
	err := r.db.WithContext(ctx).Where("id = ?", ownerID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Owner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Owner{}, err
	}
	return o, nil
}

func (r *OwnerGormRepository) FindByEmail(ctx context.Context, email string) (model.Owner, error) {
	var o model.Owner
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Owner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Owner{}, err
	}
	return o, nil
}
