package model

import "time"

type Role string

const (
	RoleCashier Role = "CASHIER"
	RoleAdmin   Role = "ADMIN"
)

// User はレジ端末へbearerトークンを払い出す従業員アカウント。
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'CASHIER'"`
	IsActive     bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
