// internal/buttons/buttons.go
package buttons

import (
	"fmt"

	cfg "github.com/tamzrod/tag-inventory/internal/config"
	"github.com/tamzrod/tag-inventory/internal/buttons/gpio"
	"github.com/tamzrod/tag-inventory/internal/buttons/spool"
	"github.com/tamzrod/tag-inventory/internal/controls"
)

// Source reports the level of each named button once per tick.
// Interrupt-driven drivers latch edges into a level; the state machine only
// ever sees levels.
type Source interface {
	Pressed(name string) (bool, error)
	Close() error
}

// None is a source with no buttons.
type None struct{}

func (None) Pressed(string) (bool, error) { return false, nil }
func (None) Close() error                 { return nil }

// Build opens the configured button driver.
func Build(b cfg.ButtonsConfig) (Source, error) {
	names := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		names = append(names, k.Name)
	}

	switch b.Driver {
	case "", "none":
		return None{}, nil
	case "gpio":
		src, err := gpio.Open(names)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "spool":
		src, err := spool.New(b.Device)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("buttons: unsupported driver %q", b.Driver)
	}
}

// Specs converts key config into state machine specs.
// A "none" driver yields no buttons.
func Specs(b cfg.ButtonsConfig) []controls.Spec {
	if b.Driver == "" || b.Driver == "none" {
		return nil
	}

	specs := make([]controls.Spec, 0, len(b.Keys))
	for _, k := range b.Keys {
		s := controls.Spec{Name: k.Name, HoldClears: k.Hold == "clear"}
		switch k.Action {
		case "previous":
			s.Step = -1
		case "next":
			s.Step = 1
		}
		specs = append(specs, s)
	}
	return specs
}
