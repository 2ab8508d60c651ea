// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/tag-inventory/internal/config"
	"github.com/tamzrod/tag-inventory/internal/writer/ingest"
	wmodbus "github.com/tamzrod/tag-inventory/internal/writer/modbus"
)

// BuildPlan converts the status config into a StatusPlan.
// Assumes config has already passed Validate and Normalize.
func BuildPlan(s cfg.StatusConfig) (StatusPlan, error) {
	if s.Endpoint == "" {
		return StatusPlan{}, errors.New("writer: status.endpoint required")
	}
	return StatusPlan{
		Endpoint:    s.Endpoint,
		UnitID:      s.UnitID,
		BaseSlot:    s.BaseSlot,
		StationName: s.StationName,
	}, nil
}

// Build returns the status writer for the configured transport.
// A nil config means status mirroring is disabled: (nil, no-op, nil).
func Build(s *cfg.StatusConfig) (StatusWriter, func() error, error) {
	noop := func() error { return nil }
	if s == nil {
		return nil, noop, nil
	}

	plan, err := BuildPlan(*s)
	if err != nil {
		return nil, noop, err
	}

	timeout := time.Duration(s.TimeoutMs) * time.Millisecond

	var (
		cli     endpointClient
		closeFn func() error
	)

	switch s.Transport {
	case "modbus":
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: s.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, noop, err
		}
		cli, closeFn = c, c.Close

	case "ingest":
		c, err := ingest.NewEndpointClient(ingest.Config{
			Endpoint: s.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, noop, err
		}
		cli, closeFn = c, c.Close

	default:
		return nil, noop, fmt.Errorf("writer: unsupported status transport %q", s.Transport)
	}

	sw, err := NewStationStatusWriter(plan, cli)
	if err != nil {
		_ = closeFn()
		return nil, noop, err
	}
	return sw, closeFn, nil
}
