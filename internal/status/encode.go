// internal/status/encode.go
package status

// Encode converts a Snapshot into its live slots, indexed by slot.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, LiveSlots)

	regs[SlotHealthCode] = s.Health
	regs[SlotItemCount] = s.ItemCount
	regs[SlotLastEvent] = s.LastEvent
	regs[SlotSelection] = s.Selection
	regs[SlotToggles] = s.Toggles
	regs[SlotSuppressed] = s.Suppressed
	regs[SlotDecodeFailures] = s.DecodeFailures

	return regs
}

// EncodeStationName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
// Non-printable bytes are replaced with '?'.
func EncodeStationName(name string) []uint16 {
	out := make([]uint16, SlotStationNameSlots)

	b := []byte(name)
	if len(b) > StationNameMaxChars {
		b = b[:StationNameMaxChars]
	}

	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < StationNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

// EncodeBlock returns the full SlotsPerStation block: live slots, zeroed
// reserved slots and the station name.
func EncodeBlock(s Snapshot, name []uint16) []uint16 {
	regs := make([]uint16, SlotsPerStation)
	copy(regs, Encode(s))

	for i := 0; i < SlotStationNameSlots && i < len(name); i++ {
		regs[SlotStationNameStart+i] = name[i]
	}
	return regs
}
