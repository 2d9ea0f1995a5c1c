package checkout

import (
	"context"
	"strings"
	"sync"
	"time"
)

// 入力静止を待つ既定ウィンドウ
const DefaultDebounceWindow = 300 * time.Millisecond

// CatalogSearcher は在庫検索コラボレータとの約束。読み取り専用。
type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]CatalogItem, error)
}

// SearchResult は発行した問い合わせに対応づいた結果。
// Query は実際にコラボレータへ送った（正規化済みの）文字列。
type SearchResult struct {
	Query string
	Items []CatalogItem
	Err   error
}

// DebouncedSearch は入力が静止するまで検索を遅らせる。
// ウィンドウ内の再入力は前の予約を取り消すので、連打1回につき
// コラボレータへの問い合わせは最大1回になる。
// 古い応答はシーケンス番号で破棄し、新しい結果を上書きさせない。
type DebouncedSearch struct {
	searcher CatalogSearcher
	window   time.Duration
	deliver  func(SearchResult)

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func NewDebouncedSearch(searcher CatalogSearcher, window time.Duration, deliver func(SearchResult)) *DebouncedSearch {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &DebouncedSearch{
		searcher: searcher,
		window:   window,
		deliver:  deliver,
	}
}

// Input はキー入力のたびに呼ぶ。
// 空白だけのクエリはコラボレータに出さず、即座に空結果を配送する。
func (d *DebouncedSearch) Input(ctx context.Context, query string) {
	q := strings.TrimSpace(query)

	d.mu.Lock()
	d.seq++
	token := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if q != "" {
		d.timer = time.AfterFunc(d.window, func() {
			d.run(ctx, token, q)
		})
	}
	d.mu.Unlock()

	if q == "" {
		d.deliver(SearchResult{Query: ""})
	}
}

// SearchNow はデバウンスせず即時に検索する。スキャン結果の投入用。
func (d *DebouncedSearch) SearchNow(ctx context.Context, query string) {
	q := strings.TrimSpace(query)

	d.mu.Lock()
	d.seq++
	token := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if q == "" {
		d.deliver(SearchResult{Query: ""})
		return
	}
	d.run(ctx, token, q)
}

// Stop は予約済みの検索を取り消し、以後の配送も止める。
func (d *DebouncedSearch) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *DebouncedSearch) run(ctx context.Context, token uint64, query string) {
	items, err := d.searcher.Search(ctx, query)

	d.mu.Lock()
	stale := token != d.seq
	d.mu.Unlock()
	if stale {
		// 新しい問い合わせが出ているので捨てる
		return
	}
	d.deliver(SearchResult{Query: query, Items: items, Err: err})
}
