package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCooking   OrderStatus = "COOKING"
	OrderStatusServed    OrderStatus = "SERVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatusは既知のステータスだけ受け付ける
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusCooking, OrderStatusServed,
		OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// 終端状態。ここからの遷移はない。
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// 遷移ルール:
//
//	PENDING -> COOKING -> SERVED -> COMPLETED
//	CANCELLED は非終端のどこからでも可
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusCooking
	case OrderStatusCooking:
		return next == OrderStatusServed
	case OrderStatusServed:
		return next == OrderStatusCompleted
	}
	return false
}

// Orderは1卓からの1回のカート送信
type Order struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	TableID      *int64 `gorm:"index" json:"table_id"` // 卓が後から削除されてもOrderは残す

	SessionToken string      `gorm:"type:varchar(100)" json:"-"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// 常に items の price*quantity 合計と一致させる
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_price"`

	IsPaid        bool   `gorm:"not null;default:false;index" json:"is_paid"`
	PaymentMethod string `gorm:"type:varchar(20);default:'CASH'" json:"payment_method"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
