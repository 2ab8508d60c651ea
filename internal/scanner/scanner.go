// internal/scanner/scanner.go
package scanner

import (
	"errors"
	"fmt"
	"time"
)

// Source abstracts the tag transceiver operations the scanner needs.
// The scanner depends on block geometry only.
type Source interface {
	// ReadUID waits up to timeout for a tag. (nil, nil) means no tag.
	ReadUID(timeout time.Duration) ([]byte, error)

	// ReadBlock reads one fixed-size memory block.
	ReadBlock(index int) ([]byte, error)

	Close() error
}

// Config is the minimal runtime config the scanner needs.
type Config struct {
	Timeout    time.Duration
	FirstBlock int // inclusive
	EndBlock   int // exclusive
	BlockSize  int
}

// Scanner is a dumb, tick-driven tag reader.
type Scanner struct {
	cfg Config
	src Source
	now func() time.Time
}

// New creates a scanner with immutable config.
func New(cfg Config, src Source) (*Scanner, error) {
	if src == nil {
		return nil, errors.New("scanner: source required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("scanner: timeout must be > 0")
	}
	if cfg.FirstBlock < 0 || cfg.EndBlock <= cfg.FirstBlock {
		return nil, fmt.Errorf("scanner: invalid block range [%d,%d)", cfg.FirstBlock, cfg.EndBlock)
	}
	if cfg.BlockSize <= 0 {
		return nil, errors.New("scanner: block size must be > 0")
	}
	return &Scanner{cfg: cfg, src: src, now: time.Now}, nil
}

// Close releases the underlying source.
func (s *Scanner) Close() error { return s.src.Close() }

// ScanOnce performs exactly one scan attempt.
// A failed or short block stops the read; what was gathered so far is kept.
func (s *Scanner) ScanOnce() ScanResult {
	res := ScanResult{At: s.now()}

	uid, err := s.src.ReadUID(s.cfg.Timeout)
	if err != nil {
		res.Err = err
		return res
	}
	if uid == nil {
		return res
	}
	res.UID = uid

	raw := make([]byte, 0, (s.cfg.EndBlock-s.cfg.FirstBlock)*s.cfg.BlockSize)
	for i := s.cfg.FirstBlock; i < s.cfg.EndBlock; i++ {
		b, err := s.src.ReadBlock(i)
		if err != nil || len(b) < s.cfg.BlockSize {
			res.Truncated = true
			break
		}
		raw = append(raw, b[:s.cfg.BlockSize]...)
		res.Blocks++
	}

	res.Raw = raw
	return res
}
