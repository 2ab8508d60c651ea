// internal/scanner/types.go
package scanner

import "time"

// ScanResult is a snapshot produced by one scan attempt.
type ScanResult struct {
	At time.Time

	// UID is nil when no tag was in range.
	UID []byte

	// Raw is the concatenation of the blocks read before the first failure.
	Raw []byte

	// Truncated is set when a block read failed or came back short.
	Truncated bool

	// Blocks is the number of whole blocks in Raw.
	Blocks int

	Err error // transport error: the UID read itself failed
}

// Present reports whether a tag answered the UID read.
func (r ScanResult) Present() bool { return r.UID != nil }
