// internal/ledger/ledger.go
package ledger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Event is the outcome of a toggle.
type Event uint8

const (
	EventNone Event = iota
	EventAdded
	EventRemoved
)

func (e Event) String() string {
	switch e {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	default:
		return "none"
	}
}

// Color is an RGB triple for alert feedback.
type Color struct {
	R, G, B uint8
}

var (
	ColorAdded   = Color{R: 0, G: 160, B: 0}
	ColorRemoved = Color{R: 180, G: 0, B: 0}
)

// Alert is what the caller should display after a toggle.
type Alert struct {
	Label string
	Color Color
}

// Result is returned by Toggle.
type Result struct {
	Event Event
	Items []string // full ledger after the toggle
	Alert Alert
}

// ErrInvalidName rejects names the line format cannot store: empty after
// trimming, or containing a line break.
var ErrInvalidName = errors.New("ledger: invalid item name")

// Config is the ledger's store configuration.
type Config struct {
	Path string

	// AtomicWrite replaces the store via temp file + rename.
	AtomicWrite bool
}

// Ledger is an ordered set of unique item names backed by a plain text file.
// Every mutation rewrites the whole file. Not safe for concurrent use.
type Ledger struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, log *slog.Logger) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, errors.New("ledger: store path required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{cfg: cfg, log: log}, nil
}

// Path returns the store path.
func (l *Ledger) Path() string { return l.cfg.Path }

// Load reads the store. A missing or unreadable store is an empty ledger.
func (l *Ledger) Load() []string {
	data, err := os.ReadFile(l.cfg.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.log.Warn("ledger load failed, using empty ledger", "path", l.cfg.Path, "err", err)
		}
		return []string{}
	}
	return parse(data)
}

// Toggle removes name if present, else appends it, then rewrites the store.
// On a write failure the Result still describes the intended change and the
// error is returned alongside it.
func (l *Ledger) Toggle(name string) (Result, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "\r\n") {
		return Result{}, ErrInvalidName
	}

	items := l.Load()

	var res Result
	if i := indexOf(items, name); i >= 0 {
		items = append(items[:i], items[i+1:]...)
		res.Event = EventRemoved
		res.Alert = Alert{Label: "REMOVED", Color: ColorRemoved}
	} else {
		items = append(items, name)
		res.Event = EventAdded
		res.Alert = Alert{Label: "ADDED", Color: ColorAdded}
	}
	res.Items = items

	if err := l.save(items); err != nil {
		return res, err
	}
	return res, nil
}

// Clear truncates the store to empty.
func (l *Ledger) Clear() error {
	return l.save(nil)
}

func (l *Ledger) save(items []string) error {
	var buf bytes.Buffer
	for _, it := range items {
		buf.WriteString(it)
		buf.WriteByte('\n')
	}

	if !l.cfg.AtomicWrite {
		if err := os.WriteFile(l.cfg.Path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("ledger: write %s: %w", l.cfg.Path, err)
		}
		return nil
	}
	return writeAtomic(l.cfg.Path, buf.Bytes())
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("ledger: create temp: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("ledger: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("ledger: sync temp: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("ledger: chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("ledger: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("ledger: rename: %w", err)
	}
	return nil
}

// parse trims each line and drops blanks and repeats.
func parse(data []byte) []string {
	items := []string{}
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		items = append(items, line)
	}
	return items
}

func indexOf(items []string, name string) int {
	for i, it := range items {
		if it == name {
			return i
		}
	}
	return -1
}
