// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/tag-inventory/internal/status"
)

// stationStatusWriter is the concrete implementation used by the engine.
type stationStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16 // live slots as last delivered
	nameRegs []uint16
}

// NewStationStatusWriter builds a status writer for one endpoint.
func NewStationStatusWriter(plan StatusPlan, cli endpointClient) (*stationStatusWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}

	return &stationStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last:     status.Encode(status.Snapshot{Health: status.HealthUnknown}),
		nameRegs: status.EncodeStationName(plan.StationName),
	}, nil
}

// WriteStatus delivers a station status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *stationStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}

	baseAddr := sw.baseAddr()
	regs := status.Encode(s)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(
			sw.plan.UnitID,
			baseAddr,
			status.EncodeBlock(s, sw.nameRegs),
		); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: changed live slots only
	// ------------------------------------------------------------
	var errs []string

	for slot, v := range regs {
		if sw.last[slot] == v {
			continue
		}
		if err := sw.cli.WriteRegisters(
			sw.plan.UnitID,
			baseAddr+uint16(slot),
			[]uint16{v},
		); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
			continue
		}
		sw.last[slot] = v
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *stationStatusWriter) baseAddr() uint16 {
	// Each station owns a fixed SlotsPerStation block.
	return sw.plan.BaseSlot * status.SlotsPerStation
}
