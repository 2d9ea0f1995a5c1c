package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// 一覧で返す最大件数
const listTransactionsLimit = 100

// SaleCompletedEvent は売上確定の通知ペイロード。
type SaleCompletedEvent struct {
	TransactionID string                  `json:"transaction_id"`
	Total         float64                 `json:"total"`
	Items         []TransactionItemOutput `json:"items"`
	CreatedAt     time.Time               `json:"created_at"`
}

// 売上確定イベントの発行を約束。配線しない構成ではnilでよい。
type SaleEventPublisher interface {
	PublishSaleCompleted(ctx context.Context, ev SaleCompletedEvent) error
}

// TransactionUsecase は /transactions の業務ロジック。
type TransactionUsecase struct {
	txRepo   repo.TransactionRepository
	itemRepo repo.ItemRepository
	events   SaleEventPublisher
	idGen    IDGenerator
	logger   *zap.Logger
}

// DI
func NewTransactionUsecase(
	txRepo repo.TransactionRepository,
	itemRepo repo.ItemRepository,
	events SaleEventPublisher,
	idGen IDGenerator,
	logger *zap.Logger,
) *TransactionUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionUsecase{
		txRepo:   txRepo,
		itemRepo: itemRepo,
		events:   events,
		idGen:    idGen,
		logger:   logger,
	}
}

type TransactionItemInput struct {
	ItemName string
	Quantity int64
	Price    float64
}

type CreateTransactionInput struct {
	Items []TransactionItemInput
	Total float64
}

type TransactionItemOutput struct {
	ItemName string  `json:"item_name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

type TransactionOutput struct {
	ID        string                  `json:"id"`
	Total     float64                 `json:"total"`
	CreatedAt time.Time               `json:"created_at"`
	Items     []TransactionItemOutput `json:"items"`
}

// Create は売上を記録する。
// 保存が本体で、在庫引当とイベント発行はベストエフォート。
func (u *TransactionUsecase) Create(ctx context.Context, in CreateTransactionInput) (TransactionOutput, error) {
	if len(in.Items) == 0 {
		return TransactionOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	for _, it := range in.Items {
		if it.ItemName == "" {
			return TransactionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item_name")
		}
		if it.Quantity < 1 {
			return TransactionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if it.Price < 0 {
			return TransactionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid price")
		}
	}
	if in.Total <= 0 {
		return TransactionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid total")
	}

	t := model.Transaction{
		PublicID: u.idGen.NewID(),
		Total:    in.Total,
	}
	for _, it := range in.Items {
		t.Items = append(t.Items, model.TransactionItem{
			ItemName: it.ItemName,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	created, err := u.txRepo.Create(ctx, t)
	if err != nil {
		return TransactionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 在庫引当。名前で引けない商品があっても売上自体は成立させる。
	for _, it := range created.Items {
		item, err := u.itemRepo.FindByName(ctx, it.ItemName)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			u.logger.Warn("stock lookup failed", zap.String("item_name", it.ItemName), zap.Error(err))
			continue
		}
		if err := u.itemRepo.DecrementStock(ctx, item.ID, it.Quantity); err != nil {
			u.logger.Warn("stock decrement failed", zap.String("item_name", it.ItemName), zap.Error(err))
		}
	}

	out := toTransactionOutput(created)

	if u.events != nil {
		ev := SaleCompletedEvent{
			TransactionID: out.ID,
			Total:         out.Total,
			Items:         out.Items,
			CreatedAt:     out.CreatedAt,
		}
		if err := u.events.PublishSaleCompleted(ctx, ev); err != nil {
			u.logger.Warn("sale event publish failed", zap.String("transaction_id", out.ID), zap.Error(err))
		}
	}

	return out, nil
}

// List は新しい順の取引一覧。
func (u *TransactionUsecase) List(ctx context.Context) ([]TransactionOutput, error) {
	ts, err := u.txRepo.ListRecent(ctx, listTransactionsLimit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]TransactionOutput, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionOutput(t))
	}
	return out, nil
}

func toTransactionOutput(t model.Transaction) TransactionOutput {
	items := make([]TransactionItemOutput, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, TransactionItemOutput{
			ItemName: it.ItemName,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return TransactionOutput{
		ID:        t.PublicID,
		Total:     t.Total,
		CreatedAt: t.CreatedAt,
		Items:     items,
	}
}
