package model

import "time"

// Tableは物理的な1卓。外部にはAccessTokenだけを見せる。
// トークンは会計のたびに回転して、古いQRリンクを無効化する。
type Table struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	Name         string `gorm:"type:varchar(50);not null" json:"name"`
	AccessToken  string `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
