package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 在庫の読み取りと、売上確定時の在庫引当だけを約束。
type ItemRepository interface {
	FindByBarcode(ctx context.Context, barcode string) (model.Item, error)
	SearchByName(ctx context.Context, q string, limit int) ([]model.Item, error)
	FindByName(ctx context.Context, name string) (model.Item, error)
	DecrementStock(ctx context.Context, itemID int64, qty int64) error
}
