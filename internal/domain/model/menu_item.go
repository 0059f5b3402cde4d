package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64           `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   int64           `gorm:"not null;index" json:"category_id"`
	Name         string          `gorm:"type:varchar(200);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	IsAvailable  bool            `gorm:"not null;default:true" json:"is_available"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
