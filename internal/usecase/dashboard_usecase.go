package usecase

import (
	"context"
	"net/http"
	"time"

	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardUsecase struct {
	tx  repo.TransactionManager
	now func() time.Time
}

func NewDashboardUsecase(tx repo.TransactionManager) *DashboardUsecase {
	return &DashboardUsecase{tx: tx, now: time.Now}
}

type KitchenOrder struct {
	ID        int64             `json:"id"`
	TableName string            `json:"table_name"`
	Status    string            `json:"status"`
	Items     []model.OrderItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// Kitchenは調理中画面。PENDING/COOKINGの注文を古い順で返す。
func (u *DashboardUsecase) Kitchen(ctx context.Context, ownerID int64) ([]KitchenOrder, error) {
	out := []KitchenOrder{}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}

		orders, err := r.Orders().ListByRestaurantAndStatuses(ctx, restaurant.ID,
			[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusCooking})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//卓名はまとめて引かずに注文ごとに解決する。
		//キッチン画面の件数なら高が知れている。
		tableNames := map[int64]string{}
		for _, order := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			tableName := ""
			if order.TableID != nil {
				if name, ok := tableNames[*order.TableID]; ok {
					tableName = name
				} else if table, err := r.Tables().FindByID(ctx, *order.TableID); err == nil {
					tableName = table.Name
					tableNames[*order.TableID] = table.Name
				}
			}

			out = append(out, KitchenOrder{
				ID:        order.ID,
				TableName: tableName,
				Status:    string(order.Status),
				Items:     items,
				CreatedAt: order.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type CashierTable struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	OrderCount    int64           `json:"order_count"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	Occupied      bool            `json:"occupied"`
}

// Cashierはレジ画面。全卓と未会計サマリを返す。
func (u *DashboardUsecase) Cashier(ctx context.Context, ownerID int64) ([]CashierTable, error) {
	out := []CashierTable{}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}

		tables, err := r.Tables().ListByRestaurantID(ctx, restaurant.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for _, table := range tables {
			summary, err := r.Orders().SummarizeActiveByTableID(ctx, table.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = append(out, CashierTable{
				ID:            table.ID,
				Name:          table.Name,
				OrderCount:    summary.OrderCount,
				PendingAmount: summary.PendingAmount,
				Occupied:      summary.OrderCount > 0,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type DailySalesEntry struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

type SalesReportOutput struct {
	TodayTotal decimal.Decimal   `json:"today_total"`
	TodayCount int64             `json:"today_count"`
	Daily      []DailySalesEntry `json:"daily"`
}

// SalesReportは直近7日の日別売上。支払い済みCOMPLETEDだけを数える。
func (u *DashboardUsecase) SalesReport(ctx context.Context, ownerID int64) (SalesReportOutput, error) {
	out := SalesReportOutput{
		TodayTotal: decimal.Zero,
		Daily:      []DailySalesEntry{},
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}

		now := u.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		since := today.AddDate(0, 0, -6)

		rows, err := r.Orders().DailySales(ctx, restaurant.ID, since)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for _, row := range rows {
			entry := DailySalesEntry{
				Date:  row.Date.Format("2006-01-02"),
				Total: row.Total,
				Count: row.Count,
			}
			out.Daily = append(out.Daily, entry)
			if row.Date.Format("2006-01-02") == today.Format("2006-01-02") {
				out.TodayTotal = row.Total
				out.TodayCount = row.Count
			}
		}
		return nil
	})
	if err != nil {
		return SalesReportOutput{}, err
	}
	return out, nil
}

func (u *DashboardUsecase) requireRestaurant(ctx context.Context, r repo.TxRepos, ownerID int64) (model.Restaurant, error) {
	if ownerID <= 0 {
		return model.Restaurant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return model.Restaurant{}, NewHTTPError(http.StatusNotFound, "restaurant not found")
	}
	if err != nil {
		return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return restaurant, nil
}
