// internal/controls/panel.go
package controls

import (
	"errors"
	"fmt"
	"time"
)

// Levels samples raw button levels by name. true means pressed.
type Levels interface {
	Pressed(name string) (bool, error)
}

// Panel is the set of buttons polled on each tick.
type Panel struct {
	buttons []*Button
}

func NewPanel(specs []Spec, timing Timing) (*Panel, error) {
	seen := make(map[string]struct{}, len(specs))
	p := &Panel{}
	for _, s := range specs {
		if s.Name == "" {
			return nil, errors.New("controls: button name required")
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("controls: duplicate button %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		p.buttons = append(p.buttons, NewButton(s, timing))
	}
	return p, nil
}

// Poll samples every button once and returns the actions fired at now.
// A button whose level cannot be read keeps its previous state for this tick.
func (p *Panel) Poll(now time.Time, src Levels) ([]Action, error) {
	var actions []Action
	var errs []error

	for _, b := range p.buttons {
		level, err := src.Pressed(b.Name())
		if err != nil {
			errs = append(errs, fmt.Errorf("button %s: %w", b.Name(), err))
			level = b.Pressed()
		}
		if a := b.Update(now, level); a.Kind != ActionNone {
			actions = append(actions, a)
		}
	}
	return actions, errors.Join(errs...)
}

// Len returns the number of buttons.
func (p *Panel) Len() int { return len(p.buttons) }
