package checkout

import (
	"fmt"
	"strings"
	"time"
)

// ReceiptLine は帳票の1行。金額は表示用に2桁へ丸め済み。
type ReceiptLine struct {
	ItemName  string  `json:"item_name"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Receipt は印字・出力コラボレータへ渡すドキュメント構造。
type Receipt struct {
	IssuedAt time.Time     `json:"issued_at"`
	Lines    []ReceiptLine `json:"lines"`
	Subtotal float64       `json:"subtotal"`
	Tax      float64       `json:"tax"`
	TaxRate  float64       `json:"tax_rate"`
	Total    float64       `json:"total"`
}

// BuildReceipt は純粋変換。同じ台帳スナップショットからは
// タイムスタンプを除いて必ず同じ構造が得られる。
func BuildReceipt(lines []LineItem, totals Totals, taxRate float64, issuedAt time.Time) Receipt {
	rl := make([]ReceiptLine, 0, len(lines))
	for _, ln := range lines {
		rl = append(rl, ReceiptLine{
			ItemName:  ln.Item.ItemName,
			Quantity:  ln.Quantity,
			UnitPrice: Round2(ln.Item.Price),
			LineTotal: Round2(float64(ln.Quantity) * ln.Item.Price),
		})
	}
	return Receipt{
		IssuedAt: issuedAt,
		Lines:    rl,
		Subtotal: Round2(totals.Subtotal),
		Tax:      Round2(totals.Tax),
		TaxRate:  taxRate,
		Total:    Round2(totals.GrandTotal),
	}
}

// Render は帳票のテキスト表現（Item / Qty / Price / Total の段組）。
func (r Receipt) Render() string {
	var b strings.Builder

	b.WriteString("Sales Receipt\n")
	fmt.Fprintf(&b, "Date: %s\n\n", r.IssuedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "%-24s %4s %10s %10s\n", "Item", "Qty", "Price", "Total")
	for _, ln := range r.Lines {
		fmt.Fprintf(&b, "%-24s %4d %10.2f %10.2f\n", ln.ItemName, ln.Quantity, ln.UnitPrice, ln.LineTotal)
	}

	fmt.Fprintf(&b, "\nSubtotal: %.2f\n", r.Subtotal)
	fmt.Fprintf(&b, "Tax (%.0f%%): %.2f\n", r.TaxRate*100, r.Tax)
	fmt.Fprintf(&b, "Total: %.2f\n", r.Total)
	return b.String()
}
