// internal/status/constants.go
package status

// Station Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerStation is the fixed number of registers per station.
const SlotsPerStation = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the station health state.
const SlotHealthCode = 0

// SlotItemCount holds the number of items in the ledger.
const SlotItemCount = 1

// SlotLastEvent holds the last toggle event (see Event* codes).
const SlotLastEvent = 2

// SlotSelection holds the selected ledger index.
const SlotSelection = 3

// SlotToggles holds the number of toggles since start (wraps at 65536).
const SlotToggles = 4

// SlotSuppressed holds the number of scans suppressed by the cooldown (saturates).
const SlotSuppressed = 5

// SlotDecodeFailures holds the number of tag reads that yielded no identifier (saturates).
const SlotDecodeFailures = 6

// LiveSlots is the number of leading slots carrying live values.
const LiveSlots = 7

// ---- RESERVED RANGE ----

// Slots 7-10 are reserved for future use.
const SlotReservedStart = 7
const SlotReservedEnd = 10

// ---- STATION NAME ----

// SlotStationNameStart is the first slot used for the station name.
// The name always sits at the END of the status block.
const SlotStationNameStart = 11

// SlotStationNameSlots is the number of slots reserved for the station name.
const SlotStationNameSlots = 8

// SlotStationNameEnd is the last slot used for the station name (inclusive).
const SlotStationNameEnd = SlotStationNameStart + SlotStationNameSlots - 1

// ---- LIMITS ----

// StationNameMaxChars is the maximum number of ASCII characters stored for the name.
const StationNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy station.
const HealthOK uint16 = 1

// HealthStoreError means the last ledger write failed.
const HealthStoreError uint16 = 2

// HealthReaderError means the last tag reader call failed.
const HealthReaderError uint16 = 3

// ---- EVENT CODES ----

// EventNone means no toggle has happened yet, or the ledger was cleared.
const EventNone uint16 = 0

// EventAdded means the last toggle added an item.
const EventAdded uint16 = 1

// EventRemoved means the last toggle removed an item.
const EventRemoved uint16 = 2

// EventCleared means the ledger was cleared by a long press.
const EventCleared uint16 = 3
