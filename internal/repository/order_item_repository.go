package repository

import (
	"context"

	"rpos/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	FindByID(ctx context.Context, itemID int64) (model.OrderItem, error)

	// スタッフの訂正用。呼び出し側で親Orderの合計を引き直すこと。
	Delete(ctx context.Context, itemID int64) error
}
