package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionConfig はチェックアウト1画面分の設定。
type SessionConfig struct {
	TaxRate        float64       // 0なら DefaultTaxRate
	DebounceWindow time.Duration // 0なら DefaultDebounceWindow
	OnResults      func(SearchResult)
}

// Session は1つのチェックアウト画面が持つ状態のまとまり。
// 台帳・デバウンス検索・確定をひとつに束ねる。
// 台帳の変更はイベントハンドラ（入力・選択・ボタン）からだけ行う。
type Session struct {
	ledger    *Ledger
	search    *DebouncedSearch
	finalizer *Finalizer
	taxRate   float64
	logger    *zap.Logger
	onResults func(SearchResult)

	mu        sync.Mutex
	query     string
	results   []CatalogItem
	lookupErr error
}

func NewSession(searcher CatalogSearcher, recorder SaleRecorder, cfg SessionConfig, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	taxRate := cfg.TaxRate
	if taxRate == 0 {
		taxRate = DefaultTaxRate
	}

	s := &Session{
		ledger:    NewLedger(),
		taxRate:   taxRate,
		logger:    logger,
		onResults: cfg.OnResults,
	}
	s.search = NewDebouncedSearch(searcher, cfg.DebounceWindow, s.deliverResult)
	s.finalizer = NewFinalizer(recorder, taxRate, logger)
	return s
}

// Type はキー入力1回分。静止ウィンドウ後に検索が走る。
func (s *Session) Type(ctx context.Context, query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	s.search.Input(ctx, query)
}

// OnScan はスキャナのデコード結果。入力と同じ扱いだが即時に検索する。
func (s *Session) OnScan(ctx context.Context, text string) {
	s.mu.Lock()
	s.query = text
	s.mu.Unlock()
	s.search.SearchNow(ctx, text)
}

// Results は現在表示中の候補リストのスナップショット。
func (s *Session) Results() []CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CatalogItem, len(s.results))
	copy(out, s.results)
	return out
}

// LookupErr は直近の検索エラー（ErrLookupNotFound含む）。
func (s *Session) LookupErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupErr
}

// Query は現在の入力文字列。
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Select は候補 index を台帳へ追加する。
// 追加後は検索状態（クエリと候補）を必ずリセットする。
func (s *Session) Select(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.results) {
		s.mu.Unlock()
		return ErrNoSuchCandidate
	}
	item := s.results[index]
	s.query = ""
	s.results = nil
	s.lookupErr = nil
	s.mu.Unlock()

	s.ledger.Add(item)
	s.search.Stop()
	return nil
}

// Ledger は台帳そのもの。数量変更や行削除はここ経由で行う。
func (s *Session) Ledger() *Ledger {
	return s.ledger
}

// Totals は台帳の現在値から毎回計算し直す。
func (s *Session) Totals() Totals {
	return CalculateTotals(s.ledger.Lines(), s.taxRate)
}

// Confirm はカートを確定する。成功すると台帳は空になる。
func (s *Session) Confirm(ctx context.Context) (string, error) {
	return s.finalizer.Confirm(ctx, s.ledger)
}

// Cancel は売上を取りやめ、台帳と検索状態を捨てる。
func (s *Session) Cancel() {
	s.search.Stop()
	s.ledger.Clear()
	s.mu.Lock()
	s.query = ""
	s.results = nil
	s.lookupErr = nil
	s.mu.Unlock()
}

// Receipt は台帳が空でなければ帳票ドキュメントを返す。
func (s *Session) Receipt(issuedAt time.Time) (Receipt, error) {
	lines := s.ledger.Lines()
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	totals := CalculateTotals(lines, s.taxRate)
	return BuildReceipt(lines, totals, s.taxRate, issuedAt), nil
}

// 検索結果の反映。古い応答は DebouncedSearch 側で捨てられている。
func (s *Session) deliverResult(res SearchResult) {
	s.mu.Lock()
	s.results = res.Items
	s.lookupErr = res.Err
	s.mu.Unlock()

	if res.Err != nil {
		s.logger.Warn("catalog lookup failed",
			zap.String("query", res.Query),
			zap.Error(res.Err))
	}
	if s.onResults != nil {
		s.onResults(res)
	}
}
