// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	ItemCount      uint16
	LastEvent      uint16
	Selection      uint16
	Toggles        uint16
	Suppressed     uint16
	DecodeFailures uint16
}

// Saturate clamps a counter into a register.
func Saturate(n int) uint16 {
	if n < 0 {
		return 0
	}
	if n > 0xFFFF {
		return 0xFFFF
	}
	return uint16(n)
}
