// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultStorePath    = "inventory.txt"
	DefaultReaderType   = "spool"
	DefaultSpoolDir     = "spool"
	DefaultTimeoutMs    = 100
	DefaultFirstBlock   = 4
	DefaultEndBlock     = 20
	DefaultBlockSize    = 4
	DefaultDebounceMs   = 300
	DefaultHoldMs       = 2000
	DefaultTickMs       = 50
	DefaultCooldownMs   = 3000
	DefaultAlertMs      = 1500
	DefaultBootMs       = 2000
	DefaultVisibleCount = 5
	DefaultTitle        = "Adventuring Inventory"
	DefaultNameWidth    = 12
	DefaultStatusMs     = 1000
	StationNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	inv := &cfg.Inventory

	// ---- store ----
	if inv.Store.Path == "" {
		inv.Store.Path = DefaultStorePath
	}
	if inv.Store.AtomicWrite == nil {
		on := true
		inv.Store.AtomicWrite = &on
	}

	// ---- reader ----
	r := &inv.Reader
	if r.Type == "" {
		r.Type = DefaultReaderType
	}
	if r.Device == "" {
		r.Device = DefaultSpoolDir
	}
	if r.TimeoutMs == 0 {
		r.TimeoutMs = DefaultTimeoutMs
	}
	if r.FirstBlock == 0 && r.EndBlock == 0 {
		r.FirstBlock = DefaultFirstBlock
	}
	if r.EndBlock == 0 {
		r.EndBlock = max(r.FirstBlock+1, DefaultEndBlock)
	}
	if r.BlockSize == 0 {
		r.BlockSize = DefaultBlockSize
	}

	// ---- buttons ----
	b := &inv.Buttons
	if b.Driver == "" {
		b.Driver = "none"
	}
	if b.Device == "" {
		b.Device = r.Device
	}
	if b.DebounceMs == 0 {
		b.DebounceMs = DefaultDebounceMs
	}
	if b.HoldMs == 0 {
		b.HoldMs = DefaultHoldMs
	}
	for i := range b.Keys {
		if b.Keys[i].Action == "" {
			b.Keys[i].Action = "none"
		}
		if b.Keys[i].Hold == "" {
			b.Keys[i].Hold = "none"
		}
	}

	// ---- engine ----
	e := &inv.Engine
	if e.TickMs == 0 {
		e.TickMs = DefaultTickMs
	}
	if e.CooldownMs == 0 {
		e.CooldownMs = DefaultCooldownMs
	}
	if e.AlertMs == 0 {
		e.AlertMs = DefaultAlertMs
	}
	if e.BootMs == 0 {
		e.BootMs = DefaultBootMs
	}
	if e.VisibleCount == 0 {
		e.VisibleCount = DefaultVisibleCount
	}

	// ---- display ----
	d := &inv.Display
	if d.Type == "" {
		d.Type = "terminal"
	}
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if d.NameWidth == 0 {
		d.NameWidth = DefaultNameWidth
	}

	// ---- status (opt-in) ----
	if s := inv.Status; s != nil {
		if s.Transport == "" {
			s.Transport = "modbus"
		}
		if s.UnitID == 0 {
			s.UnitID = 1
		}
		if s.TimeoutMs == 0 {
			s.TimeoutMs = DefaultStatusMs
		}
		// ASCII already validated
		if len(s.StationName) > StationNameMaxChars {
			s.StationName = s.StationName[:StationNameMaxChars]
		}
	}

	// ---- log ----
	if inv.Log.Level == "" {
		inv.Log.Level = "info"
	}
	if inv.Log.Journal == "" {
		inv.Log.Journal = "auto"
	}
}
