// internal/scanner/builder.go
package scanner

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/tag-inventory/internal/config"
	"github.com/tamzrod/tag-inventory/internal/scanner/spool"
)

// Build constructs a Scanner and opens its tag source.
// The returned closer releases the source.
func Build(r cfg.ReaderConfig) (*Scanner, func() error, error) {
	var src Source

	switch r.Type {
	case "spool":
		c, err := spool.New(spool.Config{
			Dir:       r.Device,
			BlockSize: r.BlockSize,
		})
		if err != nil {
			return nil, nil, err
		}
		src = c
	default:
		return nil, nil, fmt.Errorf("scanner: unsupported reader type %q", r.Type)
	}

	s, err := New(
		Config{
			Timeout:    time.Duration(r.TimeoutMs) * time.Millisecond,
			FirstBlock: r.FirstBlock,
			EndBlock:   r.EndBlock,
			BlockSize:  r.BlockSize,
		},
		src,
	)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}

	return s, s.Close, nil
}
