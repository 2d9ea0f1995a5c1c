package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type TransactionGormRepository struct {
	db *gorm.DB
}

// DI
func NewTransactionGormRepository(db *gorm.DB) *TransactionGormRepository {
	return &TransactionGormRepository{db: db}
}

// 明細ごとまとめて1トランザクションで保存する。
func (r *TransactionGormRepository) Create(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionGormRepository) FindByPublicID(ctx context.Context, publicID string) (model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("public_id = ?", publicID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Transaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// 新しい順に最大limit件。
func (r *TransactionGormRepository) ListRecent(ctx context.Context, limit int) ([]model.Transaction, error) {
	var ts []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&ts).Error
	if err != nil {
		return nil, err
	}
	return ts, nil
}
