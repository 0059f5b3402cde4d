package repository

import (
	"context"

	repo "rpos/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	owners      repo.OwnerRepository
	restaurants repo.RestaurantRepository
	tables      repo.TableRepository
	catalog     repo.CatalogRepository
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
}

func (r *txReposGorm) Owners() repo.OwnerRepository           { return r.owners }
func (r *txReposGorm) Restaurants() repo.RestaurantRepository { return r.restaurants }
func (r *txReposGorm) Tables() repo.TableRepository           { return r.tables }
func (r *txReposGorm) Catalog() repo.CatalogRepository        { return r.catalog }
func (r *txReposGorm) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository   { return r.orderItems }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			owners:      NewOwnerGormRepository(tx),
			restaurants: NewRestaurantGormRepository(tx),
			tables:      NewTableGormRepository(tx),
			catalog:     NewCatalogGormRepository(tx),
			orders:      NewOrderGormRepository(tx),
			orderItems:  NewOrderItemGormRepository(tx),
		}
		return fn(r)
	})
}
