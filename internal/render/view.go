// internal/render/view.go
package render

import (
	"context"
	"slices"
)

// Mode selects which screen the sink draws.
type Mode uint8

const (
	ModeBoot Mode = iota
	ModeInventory
	ModeAlert
)

func (m Mode) String() string {
	switch m {
	case ModeBoot:
		return "boot"
	case ModeInventory:
		return "inventory"
	case ModeAlert:
		return "alert"
	default:
		return "unknown"
	}
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Item is one visible ledger row.
type Item struct {
	Name     string
	Selected bool
}

// Alert is the big feedback screen after a toggle.
type Alert struct {
	Label string // "ADDED" / "REMOVED"
	Name  string // item that was toggled
	Color Color
}

// View is everything a sink needs to draw one frame.
// Items holds only the rows inside the viewport [Start, End).
type View struct {
	Mode  Mode
	Title string
	Items []Item
	Start int
	End   int
	Total int
	Alert *Alert
}

// Equal reports whether two views draw the same frame.
func (v View) Equal(o View) bool {
	if v.Mode != o.Mode || v.Title != o.Title ||
		v.Start != o.Start || v.End != o.End || v.Total != o.Total {
		return false
	}
	if (v.Alert == nil) != (o.Alert == nil) {
		return false
	}
	if v.Alert != nil && *v.Alert != *o.Alert {
		return false
	}
	return slices.Equal(v.Items, o.Items)
}

// Sink draws views. It holds no state the engine depends on.
type Sink interface {
	Render(ctx context.Context, v View) error
	Close() error
}

// Discard is a sink that draws nothing.
type Discard struct{}

func (Discard) Render(context.Context, View) error { return nil }
func (Discard) Close() error                       { return nil }
