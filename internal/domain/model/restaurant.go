package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID int64  `gorm:"not null;uniqueIndex" json:"owner_id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Slug    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`

	// falseなら注文受付を止める（運営による停止も含む）
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	VATPercent           decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"vat_percent"`
	ServiceChargePercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"service_charge_percent"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
