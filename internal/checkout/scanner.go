package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// デコード試行の既定間隔
const DefaultScanInterval = 200 * time.Millisecond

// FrameDecoder は映像フレームからの1回分のデコード試行。
// 読み取れなかったフレームは ("", nil) を返してよい。
type FrameDecoder interface {
	DecodeFrame(ctx context.Context) (string, error)
}

// ScanSession は起動中のスキャナ面。
// 最初にデコードできたテキストを1回だけ emit して面を閉じる。
// デコード失敗はログに残すだけで、面は開いたまま再試行する。
type ScanSession struct {
	decoder  FrameDecoder
	interval time.Duration
	emit     func(text string)
	logger   *zap.Logger

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScanSession(decoder FrameDecoder, interval time.Duration, emit func(string), logger *zap.Logger) *ScanSession {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanSession{
		decoder:  decoder,
		interval: interval,
		emit:     emit,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start はデコードループを開始する。二重起動は無視する。
func (s *ScanSession) Start(ctx context.Context) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	go s.loop(ctx)
}

// Close は面を閉じる。デコード中でも以後の結果は配送されない。
func (s *ScanSession) Close() {
	s.mu.Lock()
	s.active = false
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

// Active は面が開いているか。
func (s *ScanSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Done はループ終了で閉じるチャネル。
func (s *ScanSession) Done() <-chan struct{} {
	return s.done
}

func (s *ScanSession) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !s.Active() {
			return
		}

		text, err := s.decoder.DecodeFrame(ctx)
		if err != nil {
			// 一時的な失敗。面は閉じずに次のフレームを待つ。
			s.logger.Warn("scan decode failed", zap.Error(&DecodeError{Err: err}))
			continue
		}
		if text == "" {
			continue
		}

		// 同じコードを持ち続けても発火は1回だけ
		s.mu.Lock()
		if !s.active {
			s.mu.Unlock()
			return
		}
		s.active = false
		s.mu.Unlock()

		s.emit(text)
		return
	}
}
