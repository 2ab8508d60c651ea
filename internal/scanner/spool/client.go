// internal/scanner/spool/client.go
package spool

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Client implements scanner.Source over a directory of tag memory images.
// The first *.bin (raw bytes) or *.hex (hex text) file by name is the tag in
// range. Its contents are the tag memory starting at block 0.
// Dropping a file in "taps" the tag; removing it takes the tag away.
type Client struct {
	dir       string
	blockSize int

	// image captured by the last successful ReadUID
	mem []byte
}

// Config is minimal spool config.
type Config struct {
	Dir       string
	BlockSize int
}

// UIDLength matches a 7-byte NTAG UID.
const UIDLength = 7

// New creates a spool client. The directory is created if missing.
func New(cfg Config) (*Client, error) {
	if cfg.Dir == "" {
		return nil, errors.New("spool: directory required")
	}
	if cfg.BlockSize <= 0 {
		return nil, errors.New("spool: block size must be > 0")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("spool: %w", err)
	}
	return &Client{dir: cfg.Dir, blockSize: cfg.BlockSize}, nil
}

func (c *Client) Close() error { return nil }

// ---- scanner.Source interface ----

// ReadUID returns a UID derived from the image file name, or nil when the
// spool holds no image. The spool never blocks, so timeout is unused.
func (c *Client) ReadUID(timeout time.Duration) ([]byte, error) {
	name, err := c.current()
	if err != nil {
		return nil, err
	}
	if name == "" {
		c.mem = nil
		return nil, nil
	}

	mem, err := readImage(filepath.Join(c.dir, name))
	if err != nil {
		// Half-written file or a tag pulled mid-write; treat as no tag.
		c.mem = nil
		return nil, nil
	}
	c.mem = mem

	sum := sha1.Sum([]byte(name))
	return sum[:UIDLength], nil
}

// ReadBlock returns block index of the image captured by ReadUID.
func (c *Client) ReadBlock(index int) ([]byte, error) {
	if c.mem == nil {
		return nil, errors.New("spool: no tag selected")
	}
	start := index * c.blockSize
	if index < 0 || start+c.blockSize > len(c.mem) {
		return nil, fmt.Errorf("spool: block %d out of range", index)
	}
	out := make([]byte, c.blockSize)
	copy(out, c.mem[start:start+c.blockSize])
	return out, nil
}

// ---- helpers ----

func (c *Client) current() (string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return "", fmt.Errorf("spool: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".bin", ".hex":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)
	return names[0], nil
}

func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != ".hex" {
		return data, nil
	}
	return decodeHex(data)
}

// decodeHex accepts hex with any whitespace, as printed by xxd -p or hexdump.
func decodeHex(data []byte) ([]byte, error) {
	compact := strings.Join(strings.Fields(string(data)), "")
	return hex.DecodeString(compact)
}
