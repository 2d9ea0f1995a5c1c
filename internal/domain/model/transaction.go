package model

import "time"

// Transaction は確定済みの売上1件。
// 外部にはPublicID（UUID）だけを見せる。
type Transaction struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"-"`
	PublicID  string            `gorm:"type:varchar(36);not null;uniqueIndex" json:"id"`
	Total     float64           `gorm:"not null" json:"total"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	Items     []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// TransactionItem は売上の1明細。priceは確定時点の単価。
type TransactionItem struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	TransactionID int64   `gorm:"not null;index" json:"-"`
	ItemName      string  `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity      int64   `gorm:"not null" json:"quantity"`
	Price         float64 `gorm:"not null" json:"price"`
}
