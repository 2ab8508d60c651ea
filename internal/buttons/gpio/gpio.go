// internal/buttons/gpio/gpio.go
package gpio

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Source polls GPIO pins wired active-low with the internal pull-up enabled,
// the usual wiring for a push button to ground.
type Source struct {
	pins map[string]gpio.PinIO
}

// Open initialises the host drivers and configures each named pin as input.
// Names are periph pin names, e.g. "GPIO5".
func Open(names []string) (*Source, error) {
	if len(names) == 0 {
		return nil, errors.New("gpio: at least one pin required")
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio: host init: %w", err)
	}

	s := &Source{pins: make(map[string]gpio.PinIO, len(names))}
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("gpio: unknown pin %q", name)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("gpio: configure %s: %w", name, err)
		}
		s.pins[name] = p
	}
	return s, nil
}

// Pressed reports whether the pin is pulled low.
func (s *Source) Pressed(name string) (bool, error) {
	p, ok := s.pins[name]
	if !ok {
		return false, fmt.Errorf("gpio: pin %q not opened", name)
	}
	return p.Read() == gpio.Low, nil
}

// Close releases the pins.
func (s *Source) Close() error {
	var errs []error
	for name, p := range s.pins {
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("gpio: halt %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
