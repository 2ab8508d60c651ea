// internal/engine/loop.go
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/tag-inventory/internal/controls"
	"github.com/tamzrod/tag-inventory/internal/ledger"
	"github.com/tamzrod/tag-inventory/internal/metrics"
	"github.com/tamzrod/tag-inventory/internal/render"
	"github.com/tamzrod/tag-inventory/internal/status"
)

// Start loads the ledger and shows the boot screen until now+Boot.
func (e *Engine) Start(ctx context.Context, now time.Time) {
	e.setItems(e.d.Ledger.Load())
	e.mode = render.ModeBoot
	e.bootUntil = now.Add(e.cfg.Boot)

	e.log.Info("engine started", "items", len(e.items), "store", e.d.Ledger.Path())

	e.emit(ctx)
	e.publish()
}

// Run starts the engine and ticks until ctx is done.
// The tick in progress always completes.
func (e *Engine) Run(ctx context.Context) error {
	e.Start(ctx, e.d.Now())

	ticker := time.NewTicker(e.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped", "items", len(e.items))
			return nil
		case <-ticker.C:
			e.Tick(ctx, e.d.Now())
		}
	}
}

// Tick performs one engine cycle at now. Never blocks beyond the
// collaborators' own timeouts.
func (e *Engine) Tick(ctx context.Context, now time.Time) {
	e.scan(now)
	e.buttons(now)
	e.expire(now)
	e.emit(ctx)
	e.publish()
}

// ------------------------------------------------------------
// Tag path
// ------------------------------------------------------------

func (e *Engine) scan(now time.Time) {
	res := e.d.Scanner.ScanOnce()
	if res.Err != nil {
		if !e.readerFailed {
			e.log.Debug("tag read failed", "err", res.Err)
		}
		e.readerFailed = true
		e.d.Metrics.RecordScan(metrics.ScanFailed)
		return
	}
	e.readerFailed = false

	if !res.Present() {
		return
	}

	name, ok := e.d.Decoder.Decode(res.Raw)
	if !ok {
		e.decodeFailures++
		if res.Truncated {
			e.d.Metrics.RecordScan(metrics.ScanTruncated)
		} else {
			e.d.Metrics.RecordScan(metrics.ScanEmpty)
		}
		return
	}
	e.d.Metrics.RecordScan(metrics.ScanDecoded)

	if !e.d.Governor.Allow(now) {
		e.suppressed++
		e.d.Metrics.RecordSuppressed()
		return
	}

	toggled, err := e.d.Ledger.Toggle(name)
	if errors.Is(err, ledger.ErrInvalidName) {
		e.decodeFailures++
		e.log.Warn("tag identifier is not a valid item name", "name", name)
		return
	}
	if err != nil {
		// Persistence is not guaranteed but the toggle is still reported.
		e.storeFailed = true
		e.d.Metrics.RecordStoreError(metrics.OpSave)
		e.log.Error("ledger write failed", "item", name, "event", toggled.Event.String(), "err", err)
	} else {
		e.storeFailed = false
	}

	e.d.Governor.Record(now)
	e.setItems(toggled.Items)

	e.toggles++
	e.lastEvent = statusEvent(toggled.Event)
	e.d.Metrics.RecordToggle(toggled.Event.String())
	e.log.Info("item toggled", "item", name, "event", toggled.Event.String(), "items", len(e.items))

	e.alert = &render.Alert{
		Label: toggled.Alert.Label,
		Name:  name,
		Color: render.Color(toggled.Alert.Color),
	}
	e.alertUntil = now.Add(e.cfg.Alert)
	e.mode = render.ModeAlert
}

// ------------------------------------------------------------
// Button path
// ------------------------------------------------------------

func (e *Engine) buttons(now time.Time) {
	if e.d.Panel == nil {
		return
	}

	actions, err := e.d.Panel.Poll(now, e.d.Levels)
	if err != nil {
		e.log.Debug("button read failed", "err", err)
	}

	for _, a := range actions {
		e.d.Metrics.RecordButton(a.Kind.String())

		switch a.Kind {
		case controls.ActionNavigate:
			e.setItems(e.d.Ledger.Load())
			e.sel.Navigate(a.Step, len(e.items))

		case controls.ActionClear:
			if err := e.d.Ledger.Clear(); err != nil {
				e.storeFailed = true
				e.d.Metrics.RecordStoreError(metrics.OpClear)
				e.log.Error("ledger clear failed", "err", err)
				e.setItems(e.d.Ledger.Load())
			} else {
				e.storeFailed = false
				e.setItems(nil)
				e.log.Info("ledger cleared", "button", a.Button)
			}
			e.sel.Reset()
			e.lastEvent = status.EventCleared
		}

		e.dismiss()
	}
}

// dismiss leaves any boot or alert screen for the inventory.
func (e *Engine) dismiss() {
	e.alert = nil
	e.mode = render.ModeInventory
}

func (e *Engine) expire(now time.Time) {
	switch e.mode {
	case render.ModeBoot:
		if !now.Before(e.bootUntil) {
			e.mode = render.ModeInventory
		}
	case render.ModeAlert:
		if !now.Before(e.alertUntil) {
			e.dismiss()
		}
	}
}

// ------------------------------------------------------------
// Outputs
// ------------------------------------------------------------

// emit renders the view if it differs from the last one drawn.
// A failed render is retried on the next tick.
func (e *Engine) emit(ctx context.Context) {
	v := e.view()
	if e.emitted && v.Equal(e.lastView) {
		return
	}
	if err := e.d.Sink.Render(ctx, v); err != nil {
		if ctx.Err() == nil {
			e.log.Warn("render failed", "mode", v.Mode.String(), "err", err)
		}
		return
	}
	e.lastView = v
	e.emitted = true
}

func (e *Engine) publish() {
	if e.d.Status == nil {
		return
	}
	s := e.snapshot()
	if e.published && s == e.lastSnap {
		return
	}
	e.d.Status.Publish(s)
	e.lastSnap = s
	e.published = true
}

func statusEvent(ev ledger.Event) uint16 {
	switch ev {
	case ledger.EventAdded:
		return status.EventAdded
	case ledger.EventRemoved:
		return status.EventRemoved
	default:
		return status.EventNone
	}
}
