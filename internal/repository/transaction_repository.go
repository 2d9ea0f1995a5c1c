package repository

import (
	"app/internal/domain/model"
	"context"
)

// 取引の永続化（保存・取得）だけを約束。
type TransactionRepository interface {
	Create(ctx context.Context, t model.Transaction) (model.Transaction, error)
	FindByPublicID(ctx context.Context, publicID string) (model.Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]model.Transaction, error)
}
