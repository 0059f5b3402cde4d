package repository

import (
	"context"
	"time"

	"rpos/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 日別売上の1行
type DailySalesRow struct {
	Date  time.Time
	Total decimal.Decimal
	Count int64
}

// 卓ごとの未会計サマリ（キャッシャー画面用）
type TableActiveSummary struct {
	OrderCount    int64
	PendingAmount decimal.Decimal
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error

	// 未会計かつ未キャンセルの注文を作成時刻の昇順で返す
	ListActiveByTableID(ctx context.Context, tableID int64) ([]model.Order, error)

	// キッチン画面用（PENDING/COOKINGなど指定ステータスのみ、古い順）
	ListByRestaurantAndStatuses(ctx context.Context, restaurantID int64, statuses []model.OrderStatus) ([]model.Order, error)

	// 会計の一括遷移。対象全行を1文で is_paid=true / COMPLETED にする。
	// 更新行数を返す。
	SettleActiveByTableID(ctx context.Context, tableID int64, paymentMethod string, now time.Time) (int64, error)

	SummarizeActiveByTableID(ctx context.Context, tableID int64) (TableActiveSummary, error)

	// 支払い済みCOMPLETEDの日別集計（新しい日付順）
	DailySales(ctx context.Context, restaurantID int64, since time.Time) ([]DailySalesRow, error)
}
