package checkout

// CatalogItem は在庫検索コラボレータが返す販売対象。
// Barcode は無い商品もある（その場合は空文字）。
type CatalogItem struct {
	ItemName     string  `json:"item_name"`
	Price        float64 `json:"price"`
	Barcode      string  `json:"barcode"`
	CurrentStock *int64  `json:"current_stock,omitempty"`
}

// Key はマージ判定キー。barcodeがあれば優先、無ければitem_name。
// 同名でもbarcodeが違えば別商品として扱う。
func (i CatalogItem) Key() string {
	if i.Barcode != "" {
		return "barcode:" + i.Barcode
	}
	return "name:" + i.ItemName
}

// LineItem はカートの1行。Quantityは常に1以上。
type LineItem struct {
	Item     CatalogItem `json:"item"`
	Quantity int64       `json:"quantity"`
}

// Ledger は進行中の売上のカート台帳。
// 順序つき・同一キーは必ず1行。チェックアウトセッションが専有し、
// イベントハンドラ単位でしか触らない前提なのでロックは持たない。
type Ledger struct {
	lines []LineItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add は同一キーの行があれば数量+1、無ければ末尾に数量1で追加する。
func (l *Ledger) Add(item CatalogItem) {
	key := item.Key()
	for i := range l.lines {
		if l.lines[i].Item.Key() == key {
			l.lines[i].Quantity++
			return
		}
	}
	l.lines = append(l.lines, LineItem{Item: item, Quantity: 1})
}

// AdjustQuantity は index 行の数量を delta 変更する。下限は1。
// 1の行をデクリメントしても変化しない（削除は Remove で明示する）。
func (l *Ledger) AdjustQuantity(index int, delta int64) error {
	if index < 0 || index >= len(l.lines) {
		return ErrLineNotFound
	}
	q := l.lines[index].Quantity + delta
	if q < 1 {
		q = 1
	}
	l.lines[index].Quantity = q
	return nil
}

// Remove は index 行を削除する。他の行は順序を保ったまま詰める。
func (l *Ledger) Remove(index int) error {
	if index < 0 || index >= len(l.lines) {
		return ErrLineNotFound
	}
	l.lines = append(l.lines[:index], l.lines[index+1:]...)
	return nil
}

// Clear は台帳を空にする。確定成功後と明示キャンセルで使う。
func (l *Ledger) Clear() {
	l.lines = nil
}

// Lines はスナップショットを返す（呼び出し側の変更が台帳に波及しないようコピー）。
func (l *Ledger) Lines() []LineItem {
	out := make([]LineItem, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Ledger) Len() int {
	return len(l.lines)
}

func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}
