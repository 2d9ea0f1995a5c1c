package model

import (
	"time"

	"gorm.io/gorm"
)

// Item は在庫の1商品。barcodeを持たない商品もある。
type Item struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemName     string         `gorm:"type:varchar(255);not null;index" json:"item_name"`
	Price        float64        `gorm:"not null" json:"price"`
	Barcode      *string        `gorm:"type:varchar(64);uniqueIndex" json:"barcode"`
	CurrentStock int64          `gorm:"not null;default:0" json:"current_stock"`
	CreatedAt    time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
