package checkout

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SaleItem は取引コラボレータへ送る1明細。
type SaleItem struct {
	ItemName string  `json:"item_name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// SaleRecord は確定時点のカートのスナップショット。
type SaleRecord struct {
	Items []SaleItem `json:"items"`
	Total float64    `json:"total"`
}

// SaleRecorder は取引記録コラボレータとの約束。
// 成功時は作成された取引のIDを返す。
type SaleRecorder interface {
	RecordSale(ctx context.Context, sale SaleRecord) (string, error)
}

// Finalizer はカート台帳を耐久的な取引記録へ変換する。
// 成功したときだけ台帳をクリアし、失敗時は一切触らないので
// 利用者は同じカートのまま再試行できる。
type Finalizer struct {
	recorder SaleRecorder
	taxRate  float64
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight bool
}

func NewFinalizer(recorder SaleRecorder, taxRate float64, logger *zap.Logger) *Finalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finalizer{
		recorder: recorder,
		taxRate:  taxRate,
		logger:   logger,
	}
}

// Confirm はカートを確定する。
// 空カートはネットワークを使わず ErrEmptyCart で弾く。
// 進行中の確定があるうちは ErrConfirmInFlight（二重クリック対策）。
func (f *Finalizer) Confirm(ctx context.Context, ledger *Ledger) (string, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return "", ErrConfirmInFlight
	}
	if ledger.IsEmpty() {
		f.mu.Unlock()
		return "", ErrEmptyCart
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	sale := BuildSaleRecord(ledger.Lines(), f.taxRate)

	id, err := f.recorder.RecordSale(ctx, sale)
	if err != nil {
		f.logger.Warn("sale submission failed", zap.Error(err))
		return "", &SubmissionError{Message: err.Error(), Err: err}
	}

	// クリアは成功応答の後だけ
	ledger.Clear()
	f.logger.Info("sale completed",
		zap.String("transaction_id", id),
		zap.Float64("total", sale.Total))
	return id, nil
}

// BuildSaleRecord は台帳スナップショットから送信ペイロードを組み立てる。
// Total は税込の総額。
func BuildSaleRecord(lines []LineItem, taxRate float64) SaleRecord {
	items := make([]SaleItem, 0, len(lines))
	for _, ln := range lines {
		items = append(items, SaleItem{
			ItemName: ln.Item.ItemName,
			Quantity: ln.Quantity,
			Price:    ln.Item.Price,
		})
	}
	return SaleRecord{
		Items: items,
		Total: CalculateTotals(lines, taxRate).GrandTotal,
	}
}
