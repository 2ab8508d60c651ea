// internal/writer/types.go
package writer

import "github.com/tamzrod/tag-inventory/internal/status"

// StatusPlan is the fully-built delivery plan for the station status block.
type StatusPlan struct {
	Endpoint    string
	UnitID      uint8
	BaseSlot    uint16
	StationName string
}

// StatusWriter is the delivery-only contract for station status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// endpointClient is the exact contract the status writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
