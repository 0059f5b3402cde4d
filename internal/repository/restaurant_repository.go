package repository

import (
	"context"

	"rpos/internal/domain/model"
)

type RestaurantRepository interface {
	Create(ctx context.Context, r model.Restaurant) (int64, error)
	Update(ctx context.Context, r model.Restaurant) error
	FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error)

	// オーナーは1店舗だけ持てる
	FindByOwnerID(ctx context.Context, ownerID int64) (model.Restaurant, error)

	// 公開URL用（/dining/:slug/...）
	FindBySlug(ctx context.Context, slug string) (model.Restaurant, error)
}
