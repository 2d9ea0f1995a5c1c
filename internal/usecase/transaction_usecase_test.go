package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: TransactionRepository
// =====================

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	args := m.Called(ctx, t)
	tx, _ := args.Get(0).(model.Transaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) FindByPublicID(ctx context.Context, publicID string) (model.Transaction, error) {
	args := m.Called(ctx, publicID)
	tx, _ := args.Get(0).(model.Transaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) ListRecent(ctx context.Context, limit int) ([]model.Transaction, error) {
	args := m.Called(ctx, limit)
	ts, _ := args.Get(0).([]model.Transaction)
	return ts, args.Error(1)
}

// =====================
// Mock: SaleEventPublisher
// =====================

type MockSaleEventPublisher struct {
	mock.Mock
}

func (m *MockSaleEventPublisher) PublishSaleCompleted(ctx context.Context, ev usecase.SaleCompletedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// =====================
// Helper
// =====================

type fixedIDGen struct{ id string }

func (g fixedIDGen) NewID() string { return g.id }

func validInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		Items: []usecase.TransactionItemInput{
			{ItemName: "A", Quantity: 2, Price: 3.00},
			{ItemName: "B", Quantity: 1, Price: 1.50},
		},
		Total: 8.25,
	}
}

// =====================
// Create
// =====================

func TestTransactionUsecase_Create_Success(t *testing.T) {
	ctx := context.Background()

	txRepo := new(MockTransactionRepository)
	itemRepo := new(MockItemRepository)

	txRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx model.Transaction) bool {
		return tx.PublicID == "tx-1" && tx.Total == 8.25 && len(tx.Items) == 2
	})).Return(model.Transaction{
		ID:        1,
		PublicID:  "tx-1",
		Total:     8.25,
		CreatedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		Items: []model.TransactionItem{
			{ItemName: "A", Quantity: 2, Price: 3.00},
			{ItemName: "B", Quantity: 1, Price: 1.50},
		},
	}, nil)

	// 在庫引当：両商品とも名前で引けて減算される
	itemRepo.On("FindByName", mock.Anything, "A").Return(model.Item{ID: 10, ItemName: "A"}, nil)
	itemRepo.On("FindByName", mock.Anything, "B").Return(model.Item{ID: 11, ItemName: "B"}, nil)
	itemRepo.On("DecrementStock", mock.Anything, int64(10), int64(2)).Return(nil)
	itemRepo.On("DecrementStock", mock.Anything, int64(11), int64(1)).Return(nil)

	u := usecase.NewTransactionUsecase(txRepo, itemRepo, nil, fixedIDGen{id: "tx-1"}, nil)

	out, err := u.Create(ctx, validInput())
	assert.NoError(t, err)
	assert.Equal(t, "tx-1", out.ID)
	assert.Equal(t, 8.25, out.Total)
	assert.Len(t, out.Items, 2)

	txRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
}

func TestTransactionUsecase_Create_PublishesSaleEvent(t *testing.T) {
	ctx := context.Background()

	txRepo := new(MockTransactionRepository)
	itemRepo := new(MockItemRepository)
	events := new(MockSaleEventPublisher)

	txRepo.On("Create", mock.Anything, mock.AnythingOfType("model.Transaction")).Return(model.Transaction{
		PublicID: "tx-1",
		Total:    8.25,
		Items: []model.TransactionItem{
			{ItemName: "A", Quantity: 2, Price: 3.00},
		},
	}, nil)
	itemRepo.On("FindByName", mock.Anything, "A").Return(model.Item{}, repo.ErrNotFound)

	events.On("PublishSaleCompleted", mock.Anything, mock.MatchedBy(func(ev usecase.SaleCompletedEvent) bool {
		return ev.TransactionID == "tx-1" && ev.Total == 8.25
	})).Return(nil)

	u := usecase.NewTransactionUsecase(txRepo, itemRepo, events, fixedIDGen{id: "tx-1"}, nil)

	_, err := u.Create(ctx, usecase.CreateTransactionInput{
		Items: []usecase.TransactionItemInput{{ItemName: "A", Quantity: 2, Price: 3.00}},
		Total: 8.25,
	})
	assert.NoError(t, err)
	events.AssertExpectations(t)
}

// 在庫引当とイベント発行の失敗は売上を壊さない
func TestTransactionUsecase_Create_BestEffortSideEffects(t *testing.T) {
	ctx := context.Background()

	txRepo := new(MockTransactionRepository)
	itemRepo := new(MockItemRepository)
	events := new(MockSaleEventPublisher)

	txRepo.On("Create", mock.Anything, mock.AnythingOfType("model.Transaction")).Return(model.Transaction{
		PublicID: "tx-1",
		Total:    3.30,
		Items: []model.TransactionItem{
			{ItemName: "Ghost", Quantity: 1, Price: 3.00},
			{ItemName: "A", Quantity: 1, Price: 3.00},
		},
	}, nil)

	// 名前で引けない商品はスキップ、減算失敗も売上は成立
	itemRepo.On("FindByName", mock.Anything, "Ghost").Return(model.Item{}, repo.ErrNotFound)
	itemRepo.On("FindByName", mock.Anything, "A").Return(model.Item{ID: 10, ItemName: "A"}, nil)
	itemRepo.On("DecrementStock", mock.Anything, int64(10), int64(1)).Return(errors.New("deadlock"))
	events.On("PublishSaleCompleted", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	u := usecase.NewTransactionUsecase(txRepo, itemRepo, events, fixedIDGen{id: "tx-1"}, nil)

	out, err := u.Create(ctx, usecase.CreateTransactionInput{
		Items: []usecase.TransactionItemInput{
			{ItemName: "Ghost", Quantity: 1, Price: 3.00},
			{ItemName: "A", Quantity: 1, Price: 3.00},
		},
		Total: 3.30,
	})
	assert.NoError(t, err)
	assert.Equal(t, "tx-1", out.ID)
}

func TestTransactionUsecase_Create_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   usecase.CreateTransactionInput
		msg  string
	}{
		{
			name: "no items",
			in:   usecase.CreateTransactionInput{Total: 1},
			msg:  "items required",
		},
		{
			name: "empty item name",
			in: usecase.CreateTransactionInput{
				Items: []usecase.TransactionItemInput{{ItemName: "", Quantity: 1, Price: 1}},
				Total: 1,
			},
			msg: "invalid item_name",
		},
		{
			name: "zero quantity",
			in: usecase.CreateTransactionInput{
				Items: []usecase.TransactionItemInput{{ItemName: "A", Quantity: 0, Price: 1}},
				Total: 1,
			},
			msg: "invalid quantity",
		},
		{
			name: "negative price",
			in: usecase.CreateTransactionInput{
				Items: []usecase.TransactionItemInput{{ItemName: "A", Quantity: 1, Price: -1}},
				Total: 1,
			},
			msg: "invalid price",
		},
		{
			name: "zero total",
			in: usecase.CreateTransactionInput{
				Items: []usecase.TransactionItemInput{{ItemName: "A", Quantity: 1, Price: 1}},
				Total: 0,
			},
			msg: "invalid total",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txRepo := new(MockTransactionRepository)
			itemRepo := new(MockItemRepository)
			u := usecase.NewTransactionUsecase(txRepo, itemRepo, nil, fixedIDGen{id: "x"}, nil)

			_, err := u.Create(context.Background(), tc.in)

			he, ok := usecase.AsHTTPError(err)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
			assert.Equal(t, tc.msg, he.Message)

			// 検証で落ちた場合は保存まで行かない
			txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestTransactionUsecase_Create_DBError(t *testing.T) {
	ctx := context.Background()

	txRepo := new(MockTransactionRepository)
	itemRepo := new(MockItemRepository)

	txRepo.On("Create", mock.Anything, mock.AnythingOfType("model.Transaction")).
		Return(model.Transaction{}, errors.New("connection refused"))

	u := usecase.NewTransactionUsecase(txRepo, itemRepo, nil, fixedIDGen{id: "tx-1"}, nil)

	_, err := u.Create(ctx, validInput())

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)

	// 保存に失敗したら在庫は触らない
	itemRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// List
// =====================

func TestTransactionUsecase_List(t *testing.T) {
	ctx := context.Background()

	txRepo := new(MockTransactionRepository)
	itemRepo := new(MockItemRepository)

	txRepo.On("ListRecent", mock.Anything, mock.AnythingOfType("int")).Return([]model.Transaction{
		{PublicID: "tx-2", Total: 8.25},
		{PublicID: "tx-1", Total: 1.65},
	}, nil)

	u := usecase.NewTransactionUsecase(txRepo, itemRepo, nil, fixedIDGen{id: "x"}, nil)

	out, err := u.List(ctx)
	assert.NoError(t, err)
	if assert.Len(t, out, 2) {
		assert.Equal(t, "tx-2", out[0].ID)
	}
}

func TestTransactionUsecase_List_DBError(t *testing.T) {
	ctx := context.Background()

	txRepo := new(MockTransactionRepository)
	itemRepo := new(MockItemRepository)

	txRepo.On("ListRecent", mock.Anything, mock.AnythingOfType("int")).
		Return([]model.Transaction(nil), errors.New("connection refused"))

	u := usecase.NewTransactionUsecase(txRepo, itemRepo, nil, fixedIDGen{id: "x"}, nil)

	_, err := u.List(ctx)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}
