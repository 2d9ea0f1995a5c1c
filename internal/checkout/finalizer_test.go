package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// SaleRecorder モック
// =====================

type SaleRecorderMock struct {
	mock.Mock
}

func (m *SaleRecorderMock) RecordSale(ctx context.Context, sale SaleRecord) (string, error) {
	args := m.Called(ctx, sale)
	return args.String(0), args.Error(1)
}

var _ SaleRecorder = (*SaleRecorderMock)(nil)

func ledgerWith(items ...CatalogItem) *Ledger {
	l := NewLedger()
	for _, it := range items {
		l.Add(it)
	}
	return l
}

func TestConfirmEmptyCartMakesNoNetworkCall(t *testing.T) {
	rec := &SaleRecorderMock{}
	f := NewFinalizer(rec, 0.10, nil)

	_, err := f.Confirm(context.Background(), NewLedger())

	assert.ErrorIs(t, err, ErrEmptyCart)
	rec.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything)
}

func TestConfirmSuccessClearsLedger(t *testing.T) {
	rec := &SaleRecorderMock{}
	rec.On("RecordSale", mock.Anything, mock.Anything).Return("tx-123", nil)

	ledger := ledgerWith(
		CatalogItem{ItemName: "Cola", Barcode: "1", Price: 1.50},
		CatalogItem{ItemName: "Chips", Barcode: "2", Price: 2.00},
	)

	f := NewFinalizer(rec, 0.10, nil)
	id, err := f.Confirm(context.Background(), ledger)

	assert.NoError(t, err)
	assert.Equal(t, "tx-123", id)
	assert.True(t, ledger.IsEmpty())
	rec.AssertNumberOfCalls(t, "RecordSale", 1)
}

func TestConfirmFailureLeavesLedgerUntouched(t *testing.T) {
	rec := &SaleRecorderMock{}
	rec.On("RecordSale", mock.Anything, mock.Anything).
		Return("", errors.New("total mismatch"))

	ledger := ledgerWith(CatalogItem{ItemName: "Cola", Barcode: "1", Price: 1.50})
	ledger.Add(CatalogItem{ItemName: "Cola", Barcode: "1", Price: 1.50})
	before := ledger.Lines()

	f := NewFinalizer(rec, 0.10, nil)
	_, err := f.Confirm(context.Background(), ledger)

	// 失敗時はクリアしない（同じカートのまま再試行できる）
	se, ok := AsSubmissionError(err)
	assert.True(t, ok)
	assert.Contains(t, se.Message, "total mismatch")
	assert.Equal(t, before, ledger.Lines())
}

func TestConfirmRetryAfterFailureSucceeds(t *testing.T) {
	rec := &SaleRecorderMock{}
	rec.On("RecordSale", mock.Anything, mock.Anything).
		Return("", errors.New("network down")).Once()
	rec.On("RecordSale", mock.Anything, mock.Anything).
		Return("tx-9", nil).Once()

	ledger := ledgerWith(CatalogItem{ItemName: "Cola", Barcode: "1", Price: 1.50})
	f := NewFinalizer(rec, 0.10, nil)

	_, err := f.Confirm(context.Background(), ledger)
	assert.Error(t, err)
	assert.False(t, ledger.IsEmpty())

	id, err := f.Confirm(context.Background(), ledger)
	assert.NoError(t, err)
	assert.Equal(t, "tx-9", id)
	assert.True(t, ledger.IsEmpty())
}

// 応答待ちのままブロックする記録係
type blockingRecorder struct {
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (r *blockingRecorder) RecordSale(ctx context.Context, sale SaleRecord) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	close(r.started)
	<-r.release
	return "tx-1", nil
}

func TestConfirmWhileInFlightIsRejected(t *testing.T) {
	rec := &blockingRecorder{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	ledger := ledgerWith(CatalogItem{ItemName: "Cola", Barcode: "1", Price: 1.50})
	f := NewFinalizer(rec, 0.10, nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.Confirm(context.Background(), ledger)
		done <- err
	}()

	<-rec.started

	// 進行中の二重クリックは送信せずに弾く
	_, err := f.Confirm(context.Background(), ledger)
	assert.ErrorIs(t, err, ErrConfirmInFlight)

	close(rec.release)
	assert.NoError(t, <-done)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, 1, rec.calls)
}

func TestConfirmAllowedAgainAfterResolve(t *testing.T) {
	rec := &SaleRecorderMock{}
	rec.On("RecordSale", mock.Anything, mock.Anything).Return("tx-1", nil)

	ledger := ledgerWith(CatalogItem{ItemName: "Cola", Barcode: "1", Price: 1.50})
	f := NewFinalizer(rec, 0.10, nil)

	_, err := f.Confirm(context.Background(), ledger)
	assert.NoError(t, err)

	// 解決後は次の売上を普通に確定できる
	ledger.Add(CatalogItem{ItemName: "Chips", Barcode: "2", Price: 2.00})
	deadline := time.Now().Add(time.Second)
	for {
		_, err = f.Confirm(context.Background(), ledger)
		if !errors.Is(err, ErrConfirmInFlight) || time.Now().After(deadline) {
			break
		}
	}
	assert.NoError(t, err)
}

func TestBuildSaleRecordUsesGrandTotal(t *testing.T) {
	lines := []LineItem{
		{Item: CatalogItem{ItemName: "A", Price: 3.00}, Quantity: 2},
		{Item: CatalogItem{ItemName: "B", Price: 1.50}, Quantity: 1},
	}

	sale := BuildSaleRecord(lines, 0.10)

	assert.Len(t, sale.Items, 2)
	assert.Equal(t, SaleItem{ItemName: "A", Quantity: 2, Price: 3.00}, sale.Items[0])
	assert.InDelta(t, 8.25, sale.Total, 1e-9)
}
