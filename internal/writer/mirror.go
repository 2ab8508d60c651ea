// internal/writer/mirror.go
package writer

import (
	"context"
	"log/slog"
	"time"

	"github.com/tamzrod/tag-inventory/internal/status"
)

// RetryInterval is how long the mirror waits before re-asserting
// after a failed delivery.
const RetryInterval = time.Second

// Mirror decouples the engine loop from status delivery.
// The engine publishes; one goroutine writes. Only the latest snapshot matters.
type Mirror struct {
	w     StatusWriter
	log   *slog.Logger
	retry time.Duration

	latest chan status.Snapshot // capacity 1, latest wins
}

func NewMirror(w StatusWriter, log *slog.Logger) *Mirror {
	if log == nil {
		log = slog.Default()
	}
	return &Mirror{
		w:      w,
		log:    log,
		retry:  RetryInterval,
		latest: make(chan status.Snapshot, 1),
	}
}

// Publish hands a snapshot to the writer goroutine. Never blocks.
// An undelivered older snapshot is replaced.
func (m *Mirror) Publish(s status.Snapshot) {
	for {
		select {
		case m.latest <- s:
			return
		default:
		}
		// Full: drop the stale one and try again.
		select {
		case <-m.latest:
		default:
		}
	}
}

// Run delivers snapshots until ctx is done.
func (m *Mirror) Run(ctx context.Context) {
	var (
		pending status.Snapshot
		failed  bool
		timer   *time.Timer
		retryC  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	deliver := func(s status.Snapshot) {
		if err := m.w.WriteStatus(s); err != nil {
			if !failed {
				m.log.Warn("status write failed", "err", err)
			} else {
				m.log.Debug("status write still failing", "err", err)
			}
			failed = true
			pending = s
			if timer == nil {
				timer = time.NewTimer(m.retry)
			} else {
				timer.Reset(m.retry)
			}
			retryC = timer.C
			return
		}
		if failed {
			m.log.Info("status write recovered")
		}
		failed = false
		retryC = nil
	}

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-m.latest:
			deliver(s)
		case <-retryC:
			retryC = nil
			deliver(pending)
		}
	}
}
