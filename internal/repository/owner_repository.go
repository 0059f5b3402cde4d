package repository

import (
	"context"

	"rpos/internal/domain/model"
)

type OwnerRepository interface {
	Create(ctx context.Context, owner model.Owner) (int64, error)
	FindByID(ctx context.Context, ownerID int64) (model.Owner, error)
	FindByEmail(ctx context.Context, email string) (model.Owner, error)
}
