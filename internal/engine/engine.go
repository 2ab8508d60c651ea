// internal/engine/engine.go
package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/tag-inventory/internal/controls"
	"github.com/tamzrod/tag-inventory/internal/cooldown"
	"github.com/tamzrod/tag-inventory/internal/ledger"
	"github.com/tamzrod/tag-inventory/internal/metrics"
	"github.com/tamzrod/tag-inventory/internal/ndef"
	"github.com/tamzrod/tag-inventory/internal/render"
	"github.com/tamzrod/tag-inventory/internal/scanner"
	"github.com/tamzrod/tag-inventory/internal/status"
)

// Defaults applied by New for zero durations.
const (
	DefaultTick  = 50 * time.Millisecond
	DefaultAlert = 1500 * time.Millisecond
	DefaultBoot  = 2 * time.Second
)

// TagScanner performs one bounded tag read per call.
type TagScanner interface {
	ScanOnce() scanner.ScanResult
}

// Publisher receives station status snapshots. It must not block.
type Publisher interface {
	Publish(s status.Snapshot)
}

type Config struct {
	Tick    time.Duration
	Alert   time.Duration // how long the toggle feedback stays up
	Boot    time.Duration
	Visible int
	Title   string
}

// Deps are the engine's collaborators.
// Panel, Levels, Status and Metrics are optional.
type Deps struct {
	Scanner  TagScanner
	Decoder  *ndef.Decoder
	Ledger   *ledger.Ledger
	Governor *cooldown.Governor
	Panel    *controls.Panel
	Levels   controls.Levels
	Sink     render.Sink
	Status   Publisher
	Metrics  *metrics.Metrics
	Log      *slog.Logger
	Now      func() time.Time
}

// Engine is the single owner of selection, button and cooldown state.
// All methods must be called from one goroutine.
type Engine struct {
	cfg Config
	d   Deps
	log *slog.Logger

	items []string
	sel   controls.Selection

	mode       render.Mode
	bootUntil  time.Time
	alert      *render.Alert
	alertUntil time.Time

	lastView render.View
	emitted  bool

	// status counters
	lastEvent      uint16
	toggles        uint16 // wraps
	suppressed     int
	decodeFailures int
	storeFailed    bool
	readerFailed   bool

	lastSnap  status.Snapshot
	published bool
}

func New(cfg Config, d Deps) (*Engine, error) {
	switch {
	case d.Scanner == nil:
		return nil, errors.New("engine: scanner required")
	case d.Decoder == nil:
		return nil, errors.New("engine: decoder required")
	case d.Ledger == nil:
		return nil, errors.New("engine: ledger required")
	case d.Governor == nil:
		return nil, errors.New("engine: governor required")
	case d.Sink == nil:
		return nil, errors.New("engine: sink required")
	case d.Panel != nil && d.Levels == nil:
		return nil, errors.New("engine: button levels required with a panel")
	}

	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Alert <= 0 {
		cfg.Alert = DefaultAlert
	}
	if cfg.Boot <= 0 {
		cfg.Boot = DefaultBoot
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	return &Engine{
		cfg:   cfg,
		d:     d,
		log:   d.Log,
		items: []string{},
		sel:   controls.NewSelection(cfg.Visible),
		mode:  render.ModeBoot,
	}, nil
}

// Items returns a copy of the in-memory ledger.
func (e *Engine) Items() []string {
	return append([]string(nil), e.items...)
}

// Selection returns the cursor and viewport.
func (e *Engine) Selection() controls.Selection { return e.sel }

// Mode returns the current screen.
func (e *Engine) Mode() render.Mode { return e.mode }

// View returns the view model for the current state.
func (e *Engine) View() render.View { return e.view() }

// Snapshot returns the station status for the current state.
func (e *Engine) Snapshot() status.Snapshot { return e.snapshot() }

func (e *Engine) setItems(items []string) {
	if items == nil {
		items = []string{}
	}
	e.items = items
	e.sel.Recompute(len(items))
	e.d.Metrics.SetItems(len(items))
}
