package repository

import (
	"context"
	"errors"
	"time"

	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total_price", total)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListActiveByTableID(ctx context.Context, tableID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("table_id = ? AND is_paid = ? AND status <> ?", tableID, false, model.OrderStatusCancelled).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByRestaurantAndStatuses(ctx context.Context, restaurantID int64, statuses []model.OrderStatus) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND status IN ?", restaurantID, statuses).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

// 会計の一括更新。WHEREで対象を絞った1文のUPDATEなので部分失敗はない。
func (r *OrderGormRepository) SettleActiveByTableID(ctx context.Context, tableID int64, paymentMethod string, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("table_id = ? AND is_paid = ? AND status <> ?", tableID, false, model.OrderStatusCancelled).
		Updates(map[string]interface{}{
			"is_paid":        true,
			"status":         model.OrderStatusCompleted,
			"payment_method": paymentMethod,
			"updated_at":     now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *OrderGormRepository) SummarizeActiveByTableID(ctx context.Context, tableID int64) (repo.TableActiveSummary, error) {
	var row struct {
		OrderCount    int64
		PendingAmount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS pending_amount").
		Where("table_id = ? AND is_paid = ? AND status <> ?", tableID, false, model.OrderStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return repo.TableActiveSummary{}, err
	}
	return repo.TableActiveSummary{
		OrderCount:    row.OrderCount,
		PendingAmount: row.PendingAmount,
	}, nil
}

func (r *OrderGormRepository) DailySales(ctx context.Context, restaurantID int64, since time.Time) ([]repo.DailySalesRow, error) {
	var rows []struct {
		Date  time.Time
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE(created_at) AS date, COALESCE(SUM(total_price), 0) AS total, COUNT(*) AS count").
		Where("restaurant_id = ? AND is_paid = ? AND status = ? AND created_at >= ?",
			restaurantID, true, model.OrderStatusCompleted, since).
		Group("DATE(created_at)").
		Order("date desc").
		Scan(&rows).Error
	if err != nil {
		return []repo.DailySalesRow{}, err
	}

	out := make([]repo.DailySalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, repo.DailySalesRow{Date: r.Date, Total: r.Total, Count: r.Count})
	}
	return out, nil
}
