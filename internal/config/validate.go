// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are legal and mean "use the default" (see Normalize).
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	inv := cfg.Inventory

	// ------------------------------------------------------------
	// TAG READER
	// ------------------------------------------------------------

	switch inv.Reader.Type {
	case "", "spool":
	default:
		return fmt.Errorf("reader: unknown type %q", inv.Reader.Type)
	}

	if err := nonNegative("reader.timeout_ms", inv.Reader.TimeoutMs); err != nil {
		return err
	}
	if err := nonNegative("reader.first_block", inv.Reader.FirstBlock); err != nil {
		return err
	}
	if err := nonNegative("reader.end_block", inv.Reader.EndBlock); err != nil {
		return err
	}
	if err := nonNegative("reader.block_size", inv.Reader.BlockSize); err != nil {
		return err
	}
	if inv.Reader.EndBlock != 0 && inv.Reader.EndBlock <= inv.Reader.FirstBlock {
		return fmt.Errorf(
			"reader: end_block %d must be greater than first_block %d",
			inv.Reader.EndBlock,
			inv.Reader.FirstBlock,
		)
	}

	// ------------------------------------------------------------
	// BUTTONS
	// ------------------------------------------------------------

	switch inv.Buttons.Driver {
	case "", "none":
	case "gpio", "spool":
		if err := validateKeys(inv.Buttons.Keys); err != nil {
			return err
		}
	default:
		return fmt.Errorf("buttons: unknown driver %q", inv.Buttons.Driver)
	}

	if err := nonNegative("buttons.debounce_ms", inv.Buttons.DebounceMs); err != nil {
		return err
	}
	if err := nonNegative("buttons.hold_ms", inv.Buttons.HoldMs); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// ENGINE TIMING
	// ------------------------------------------------------------

	for name, v := range map[string]int{
		"engine.tick_ms":       inv.Engine.TickMs,
		"engine.cooldown_ms":   inv.Engine.CooldownMs,
		"engine.alert_ms":      inv.Engine.AlertMs,
		"engine.boot_ms":       inv.Engine.BootMs,
		"engine.visible_count": inv.Engine.VisibleCount,
	} {
		if err := nonNegative(name, v); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// DISPLAY
	// ------------------------------------------------------------

	switch inv.Display.Type {
	case "", "terminal", "none":
	default:
		return fmt.Errorf("display: unknown type %q", inv.Display.Type)
	}
	if err := nonNegative("display.name_width", inv.Display.NameWidth); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if s := inv.Status; s != nil {
		switch s.Transport {
		case "", "modbus", "ingest":
		default:
			return fmt.Errorf("status: unknown transport %q", s.Transport)
		}
		if s.Endpoint == "" {
			return fmt.Errorf("status: endpoint required")
		}
		for i := 0; i < len(s.StationName); i++ {
			if s.StationName[i] > 0x7F {
				return fmt.Errorf("status: station_name must contain ASCII characters only")
			}
		}
		if err := nonNegative("status.timeout_ms", s.TimeoutMs); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch inv.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", inv.Log.Level)
	}
	switch inv.Log.Journal {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("log: journal must be auto, on or off, got %q", inv.Log.Journal)
	}

	return nil
}

func validateKeys(keys []KeyConfig) error {
	if len(keys) == 0 {
		return fmt.Errorf("buttons: at least one key required")
	}

	seen := make(map[string]struct{}, len(keys))
	canClear := false

	for _, k := range keys {
		if k.Name == "" {
			return fmt.Errorf("buttons: key name required")
		}
		if _, dup := seen[k.Name]; dup {
			return fmt.Errorf("buttons: duplicate key %q", k.Name)
		}
		seen[k.Name] = struct{}{}

		switch k.Action {
		case "", "none", "previous", "next":
		default:
			return fmt.Errorf("buttons: key %q: unknown action %q", k.Name, k.Action)
		}
		switch k.Hold {
		case "", "none":
		case "clear":
			canClear = true
		default:
			return fmt.Errorf("buttons: key %q: unknown hold action %q", k.Name, k.Hold)
		}
	}

	if !canClear {
		return fmt.Errorf("buttons: no key is bound to hold: clear")
	}
	return nil
}

func nonNegative(name string, v int) error {
	if v < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", name, v)
	}
	return nil
}
