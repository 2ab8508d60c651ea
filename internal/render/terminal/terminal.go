// internal/render/terminal/terminal.go
package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/tamzrod/tag-inventory/internal/render"
)

// Config is the terminal sink's layout.
type Config struct {
	Title     string
	NameWidth int // names longer than this are cut and suffixed with ".."
	Width     int // frame width in cells
}

// Sink draws each view as a framed block of text on w.
type Sink struct {
	mu  sync.Mutex
	w   io.Writer
	cfg Config

	frame    lipgloss.Style
	title    lipgloss.Style
	selected lipgloss.Style
	normal   lipgloss.Style
	empty    lipgloss.Style
}

func New(w io.Writer, cfg Config) *Sink {
	if cfg.NameWidth <= 0 {
		cfg.NameWidth = 12
	}
	if cfg.Width <= 0 {
		cfg.Width = 24
	}

	return &Sink{
		w:   w,
		cfg: cfg,
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(cfg.Width).
			Padding(0, 1),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Background(lipgloss.Color("#323232")),
		normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#646464")),
	}
}

// Render writes one frame. Safe for concurrent use.
func (s *Sink) Render(ctx context.Context, v render.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintln(s.w, s.Frame(v))
	return err
}

func (s *Sink) Close() error { return nil }

// Frame returns the rendered text for v without writing it.
func (s *Sink) Frame(v render.View) string {
	switch v.Mode {
	case render.ModeBoot:
		title := v.Title
		if title == "" {
			title = s.cfg.Title
		}
		return s.frame.Render(s.title.Render(title))

	case render.ModeAlert:
		if v.Alert == nil {
			return s.frame.Render("")
		}
		bg := lipgloss.Color(hexColor(v.Alert.Color))
		style := s.frame.
			Background(bg).
			BorderBackground(bg)
		label := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(bg).
			Render(v.Alert.Label)
		name := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(bg).
			Render(Truncate(v.Alert.Name, s.cfg.NameWidth))
		return style.Render(label + "\n" + name)

	default:
		if v.Total == 0 || len(v.Items) == 0 {
			return s.frame.Render(s.empty.Render("[ EMPTY ]"))
		}

		var b strings.Builder
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte('\n')
			}
			line := Truncate(it.Name, s.cfg.NameWidth)
			if it.Selected {
				b.WriteString(s.selected.Render("> " + line))
			} else {
				b.WriteString(s.normal.Render("  " + line))
			}
		}
		footer := s.empty.Render(fmt.Sprintf("%d-%d of %d", v.Start+1, v.End, v.Total))
		return s.frame.Render(b.String() + "\n" + footer)
	}
}

// Truncate cuts name to width runes and appends "..".
func Truncate(name string, width int) string {
	r := []rune(name)
	if width <= 0 || len(r) <= width {
		return name
	}
	return string(r[:width]) + ".."
}

func hexColor(c render.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
