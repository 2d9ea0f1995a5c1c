package checkout

import "math"

// DefaultTaxRate は既定の税率（10%）。業務設定で差し替えられる。
const DefaultTaxRate = 0.10

// Totals は台帳から導出する金額。保持せず、読むたびに再計算する。
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}

// CalculateTotals は純粋関数。空の台帳なら全て0。
// 丸めは集計中には行わず、表示時に Round2 で行う。
func CalculateTotals(lines []LineItem, taxRate float64) Totals {
	var subtotal float64
	for _, ln := range lines {
		subtotal += float64(ln.Quantity) * ln.Item.Price
	}
	tax := subtotal * taxRate
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal + tax,
	}
}

// Round2 は表示用の小数2桁丸め。
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
