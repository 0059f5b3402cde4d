package model

import "github.com/shopspring/decimal"

// OrderItemは注文1行のスナップショット。
// PriceとNameSnapshotは作成時に確定して以後変更しない（メニュー改定の影響を受けない）。
type OrderItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64           `gorm:"not null;index" json:"order_id"`
	MenuItemID   int64           `gorm:"not null;index" json:"menu_item_id"`
	NameSnapshot string          `gorm:"type:varchar(200);not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	Note         string          `gorm:"type:varchar(255)" json:"note"`
}

// この行の小計
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
