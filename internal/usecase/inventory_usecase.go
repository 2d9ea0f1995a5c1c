package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 名前検索で返す最大件数
const searchLimit = 20

// InventoryUsecase は /inventory/search の業務ロジック。
type InventoryUsecase struct {
	itemRepo repo.ItemRepository
}

// DI
func NewInventoryUsecase(itemRepo repo.ItemRepository) *InventoryUsecase {
	return &InventoryUsecase{itemRepo: itemRepo}
}

type SearchInput struct {
	Query string
}

// SearchOutput はhandlerが応答の形を決めるための結果。
// Exact=true はbarcode完全一致で、単一オブジェクトとして返す。
type SearchOutput struct {
	Exact bool
	Items []model.Item
}

// Search はbarcode完全一致を優先し、無ければ名前の部分一致。
// どちらも空なら404。
func (u *InventoryUsecase) Search(ctx context.Context, in SearchInput) (SearchOutput, error) {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	item, err := u.itemRepo.FindByBarcode(ctx, q)
	if err == nil {
		return SearchOutput{Exact: true, Items: []model.Item{item}}, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return SearchOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.itemRepo.SearchByName(ctx, q, searchLimit)
	if err != nil {
		return SearchOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return SearchOutput{}, NewHTTPError(http.StatusNotFound, "item not found")
	}

	return SearchOutput{Exact: false, Items: items}, nil
}
