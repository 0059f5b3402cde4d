package repository

import (
	"context"
	"errors"

	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableGormRepository struct {
	db *gorm.DB
}

func NewTableGormRepository(db *gorm.DB) *TableGormRepository {
	return &TableGormRepository{db: db}
}

func (r *TableGormRepository) Create(ctx context.Context, t model.Table) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (r *TableGormRepository) Delete(ctx context.Context, tableID int64, restaurantID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", tableID, restaurantID).
		Delete(&model.Table{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TableGormRepository) ListByRestaurantID(ctx context.Context, restaurantID int64) ([]model.Table, error) {
	var items []model.Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return []model.Table{}, err
	}
	return items, nil
}

func (r *TableGormRepository) FindByID(ctx context.Context, tableID int64) (model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("id = ?", tableID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Table{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	return t, nil
}

// SELECT ... FOR UPDATE。会計Tx内からだけ呼ぶこと。
func (r *TableGormRepository) FindByIDForUpdate(ctx context.Context, tableID int64) (model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", tableID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Table{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func (r *TableGormRepository) FindByToken(ctx context.Context, token string) (model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Table{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func (r *TableGormRepository) RotateToken(ctx context.Context, tableID int64, newToken string) error {
	res := r.db.WithContext(ctx).Model(&model.Table{}).
		Where("id = ?", tableID).
		Update("access_token", newToken)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
