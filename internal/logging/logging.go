// internal/logging/logging.go
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"

	cfg "github.com/tamzrod/tag-inventory/internal/config"
)

// Options are the process-level inputs that do not live in the config file.
type Options struct {
	// LevelOverride wins over log.level when non-empty.
	LevelOverride string
	// Stderr receives the text handler. Defaults to os.Stderr.
	Stderr io.Writer
	// CgroupFile is read to detect a systemd service. Defaults to /proc/self/cgroup.
	CgroupFile string
}

// New builds the process logger and returns a closer for any opened file.
//
// Handlers:
//   - text on stderr, unless running as a systemd service with journal auto
//   - JSON lines to log.file when set
//   - systemd journal when journal is "on", or "auto" inside a .service cgroup
func New(c cfg.LogConfig, opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	name := c.Level
	if opts.LevelOverride != "" {
		name = opts.LevelOverride
	}
	lvl, err := ParseLevel(name)
	if err != nil {
		return nil, noop, err
	}
	level := new(slog.LevelVar)
	level.Set(lvl)

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	cgroupFile := opts.CgroupFile
	if cgroupFile == "" {
		cgroupFile = "/proc/self/cgroup"
	}

	isSystemdService := false
	if cgroupPath, err := getCgroupPath(cgroupFile); err == nil {
		isSystemdService = strings.HasSuffix(cgroupPath, ".service") ||
			strings.HasSuffix(path.Dir(cgroupPath), ".service")
	}

	journal := false
	switch c.Journal {
	case "on":
		journal = true
	case "", "auto":
		journal = isSystemdService
	}

	var handlers []slog.Handler

	// local
	var terminalHandler slog.Handler
	if !(journal && isSystemdService) {
		terminalHandler = slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
		handlers = append(handlers, terminalHandler)
	}

	// file
	closeFn := noop
	if c.File != "" {
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("logging: open %s: %w", c.File, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closeFn = f.Close
	}

	// systemd journal
	if journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminalHandler == nil {
				// journal was the only sink; fall back to stderr
				terminalHandler = slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
				handlers = append(handlers, terminalHandler)
			}
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, &levelHandler{Handler: journalHandler, level: level})
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// ParseLevel maps a config level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// levelHandler gates a handler that has no level option of its own.
type levelHandler struct {
	slog.Handler
	level slog.Leveler
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}

func getCgroupPath(file string) (string, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) >= 3 {
		return parts[2], nil
	}
	return "", nil
}
