package repository

import (
	"context"
	"errors"

	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"gorm.io/gorm"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) CreateCategory(ctx context.Context, c model.Category) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *CatalogGormRepository) ListCategories(ctx context.Context, restaurantID int64) ([]model.Category, error) {
	var items []model.Category
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("sort_order asc, name asc").
		Find(&items).Error
	if err != nil {
		return []model.Category{}, err
	}
	return items, nil
}

func (r *CatalogGormRepository) DeleteCategory(ctx context.Context, categoryID int64, restaurantID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND restaurant_id = ?", categoryID, restaurantID).
			Delete(&model.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		// このカテゴリのメニューも消す（元のcascade相当）
		return tx.Where("category_id = ?", categoryID).Delete(&model.MenuItem{}).Error
	})
}

func (r *CatalogGormRepository) CreateMenuItem(ctx context.Context, m model.MenuItem) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *CatalogGormRepository) UpdateMenuItem(ctx context.Context, m model.MenuItem) error {
	res := r.db.WithContext(ctx).Model(&model.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", m.ID, m.RestaurantID).
		Updates(map[string]interface{}{
			"name":         m.Name,
			"description":  m.Description,
			"price":        m.Price,
			"is_available": m.IsAvailable,
			"category_id":  m.CategoryID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CatalogGormRepository) DeleteMenuItem(ctx context.Context, menuItemID int64, restaurantID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", menuItemID, restaurantID).
		Delete(&model.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CatalogGormRepository) FindMenuItem(ctx context.Context, menuItemID int64) (model.MenuItem, error) {
	var m model.MenuItem
	err := r.db.WithContext(ctx).Where("id = ?", menuItemID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MenuItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	return m, nil
}

func (r *CatalogGormRepository) ListMenuItems(ctx context.Context, restaurantID int64, onlyAvailable bool) ([]model.MenuItem, error) {
	q := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	var items []model.MenuItem
	if err := q.Order("id asc").Find(&items).Error; err != nil {
		return []model.MenuItem{}, err
	}
	return items, nil
}
