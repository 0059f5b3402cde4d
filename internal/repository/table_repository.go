package repository

import (
	"context"

	"rpos/internal/domain/model"
)

type TableRepository interface {
	Create(ctx context.Context, t model.Table) (int64, error)
	Delete(ctx context.Context, tableID int64, restaurantID int64) error
	ListByRestaurantID(ctx context.Context, restaurantID int64) ([]model.Table, error)
	FindByID(ctx context.Context, tableID int64) (model.Table, error)

	// 会計処理用。行ロック（FOR UPDATE）で取得して
	// 「伝票表示〜会計確定」の間に新規注文が混ざるのを防ぐ。
	FindByIDForUpdate(ctx context.Context, tableID int64) (model.Table, error)

	// QRコードに載る外部トークンで解決する
	FindByToken(ctx context.Context, token string) (model.Table, error)

	// 会計のたびに呼ぶ。古いリンクはここで無効になる。
	RotateToken(ctx context.Context, tableID int64, newToken string) error
}
