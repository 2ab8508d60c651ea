// internal/config/config.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Inventory InventoryConfig `yaml:"inventory"`
}

type InventoryConfig struct {
	Store   StoreConfig   `yaml:"store"`
	Reader  ReaderConfig  `yaml:"reader"`
	Buttons ButtonsConfig `yaml:"buttons"`
	Engine  EngineConfig  `yaml:"engine"`
	Display DisplayConfig `yaml:"display"`
	Status  *StatusConfig `yaml:"status"` // optional, opt-in
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// ---- STORE ----

type StoreConfig struct {
	Path        string `yaml:"path"`
	AtomicWrite *bool  `yaml:"atomic_write"` // nil => true
}

// ---- TAG READER ----

type ReaderConfig struct {
	Type      string `yaml:"type"`   // "spool"
	Device    string `yaml:"device"` // spool directory
	TimeoutMs int    `yaml:"timeout_ms"`

	// Block geometry: [first_block, end_block) of block_size bytes.
	FirstBlock int `yaml:"first_block"`
	EndBlock   int `yaml:"end_block"`
	BlockSize  int `yaml:"block_size"`
}

// ---- BUTTONS ----

type ButtonsConfig struct {
	Driver     string      `yaml:"driver"` // "gpio", "spool", "none"
	Device     string      `yaml:"device"` // spool directory
	DebounceMs int         `yaml:"debounce_ms"`
	HoldMs     int         `yaml:"hold_ms"`
	Keys       []KeyConfig `yaml:"keys"`
}

type KeyConfig struct {
	Name   string `yaml:"name"`   // pin or key name, e.g. GPIO5
	Action string `yaml:"action"` // "previous", "next", "none"
	Hold   string `yaml:"hold"`   // "clear", "none"
}

// ---- ENGINE ----

type EngineConfig struct {
	TickMs       int `yaml:"tick_ms"`
	CooldownMs   int `yaml:"cooldown_ms"`
	AlertMs      int `yaml:"alert_ms"`
	BootMs       int `yaml:"boot_ms"`
	VisibleCount int `yaml:"visible_count"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Type      string `yaml:"type"` // "terminal", "none"
	Title     string `yaml:"title"`
	NameWidth int    `yaml:"name_width"`
}

// ---- STATUS MIRROR ----

type StatusConfig struct {
	Transport   string `yaml:"transport"` // "modbus", "ingest"
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	BaseSlot    uint16 `yaml:"base_slot"`
	StationName string `yaml:"station_name"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty => disabled
}

// ---- LOG ----

type LogConfig struct {
	Level   string `yaml:"level"`   // debug, info, warn, error
	File    string `yaml:"file"`    // JSON log file, optional
	Journal string `yaml:"journal"` // auto, on, off
}

// Load reads and strictly decodes a YAML config file.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes. An empty document is a zero Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}
