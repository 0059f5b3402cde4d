package repository

import (
	"context"

	"rpos/internal/domain/model"
)

// メニュー側（カテゴリ＋商品）。注文フローからはread-mostly。
type CatalogRepository interface {
	CreateCategory(ctx context.Context, c model.Category) (int64, error)
	ListCategories(ctx context.Context, restaurantID int64) ([]model.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64, restaurantID int64) error

	CreateMenuItem(ctx context.Context, m model.MenuItem) (int64, error)
	UpdateMenuItem(ctx context.Context, m model.MenuItem) error
	DeleteMenuItem(ctx context.Context, menuItemID int64, restaurantID int64) error
	FindMenuItem(ctx context.Context, menuItemID int64) (model.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID int64, onlyAvailable bool) ([]model.MenuItem, error)
}
