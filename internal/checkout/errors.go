package checkout

import (
	"errors"
	"fmt"
)

// 検索で一致する商品が無い
var ErrLookupNotFound = errors.New("item not found")

// 空のカートは確定できない（送信前に弾く）
var ErrEmptyCart = errors.New("cart is empty")

// 確定処理が進行中（二重送信ガード）
var ErrConfirmInFlight = errors.New("confirm already in flight")

// 行番号が範囲外
var ErrLineNotFound = errors.New("line item not found")

// 候補番号が範囲外
var ErrNoSuchCandidate = errors.New("no such candidate")

// SubmissionError は取引コラボレータの失敗。台帳はそのまま残る。
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sale submission failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("sale submission failed: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// AsSubmissionError は errors.As の薄いラッパ。
func AsSubmissionError(err error) (*SubmissionError, bool) {
	var se *SubmissionError
	ok := errors.As(err, &se)
	return se, ok
}

// DecodeError はスキャンの一時的な失敗。面は開いたままで再試行できる。
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("barcode decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
