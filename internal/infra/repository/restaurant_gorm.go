package repository

import (
	"context"
	"errors"

	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"gorm.io/gorm"
)

type RestaurantGormRepository struct {
	db *gorm.DB
}

func NewRestaurantGormRepository(db *gorm.DB) *RestaurantGormRepository {
	return &RestaurantGormRepository{db: db}
}

func (r *RestaurantGormRepository) Create(ctx context.Context, m model.Restaurant) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *RestaurantGormRepository) Update(ctx context.Context, m model.Restaurant) error {
	res := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"name":                   m.Name,
			"address":                m.Address,
			"phone":                  m.Phone,
			"vat_percent":            m.VATPercent,
			"service_charge_percent": m.ServiceChargePercent,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RestaurantGormRepository) FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	var m model.Restaurant
	err := r.db.WithContext(ctx).Where("id = ?", restaurantID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return m, nil
}

func (r *RestaurantGormRepository) FindByOwnerID(ctx context.Context, ownerID int64) (model.Restaurant, error) {
	var m model.Restaurant
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return m, nil
}

func (r *RestaurantGormRepository) FindBySlug(ctx context.Context, slug string) (model.Restaurant, error) {
	var m model.Restaurant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return m, nil
}
