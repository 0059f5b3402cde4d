package model

type Category struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder    int    `gorm:"not null;default:0" json:"sort_order"`
}
