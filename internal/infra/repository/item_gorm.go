package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

// barcode完全一致で1件取得する。
func (r *ItemGormRepository) FindByBarcode(ctx context.Context, barcode string) (model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("barcode = ?", barcode).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// item_nameの部分一致検索。名前順で安定させる。
func (r *ItemGormRepository) SearchByName(ctx context.Context, q string, limit int) ([]model.Item, error) {
	like := "%" + strings.TrimSpace(q) + "%"

	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("item_name ILIKE ?", like).
		Order("item_name asc").Order("id asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// item_name完全一致で1件取得する（在庫引当用）。
func (r *ItemGormRepository) FindByName(ctx context.Context, name string) (model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("item_name = ?", name).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// 在庫を減らす。0未満にはしない。
func (r *ItemGormRepository) DecrementStock(ctx context.Context, itemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", itemID).
		Update("current_stock", gorm.Expr("GREATEST(current_stock - ?, 0)", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
