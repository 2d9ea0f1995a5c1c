package repository

import (
	"app/internal/domain/model"
	"context"
	"time"
)

// 従業員アカウントの取得とログイン時刻の更新だけを約束。
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	UpdateLastLoginAt(ctx context.Context, userID int64, at time.Time) error
}
