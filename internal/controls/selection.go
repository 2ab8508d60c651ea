// internal/controls/selection.go
package controls

// DefaultVisible is the number of ledger rows shown at once.
const DefaultVisible = 5

// Selection is the cursor and viewport over the ledger. Never persisted.
//
// For a ledger of n > 0 items:
//   Start <= Index < End
//   End - Start == min(n, visible)
type Selection struct {
	Index int
	Start int
	End   int

	visible int
}

func NewSelection(visible int) Selection {
	if visible <= 0 {
		visible = DefaultVisible
	}
	return Selection{visible: visible}
}

// Visible returns the viewport height.
func (s *Selection) Visible() int {
	if s.visible <= 0 {
		return DefaultVisible
	}
	return s.visible
}

// Navigate moves the cursor by step, wrapping around a ledger of n items.
// No-op when the ledger is empty.
func (s *Selection) Navigate(step, n int) {
	if n <= 0 {
		s.Reset()
		return
	}
	s.Index = ((s.Index+step)%n + n) % n
	s.Recompute(n)
}

// Recompute clamps the cursor into [0,n) and centres the viewport on it.
func (s *Selection) Recompute(n int) {
	if n <= 0 {
		s.Reset()
		return
	}
	if s.Index < 0 {
		s.Index = 0
	}
	if s.Index >= n {
		s.Index = n - 1
	}

	v := s.Visible()
	s.Start = clamp(s.Index-v/2, 0, max(0, n-v))
	s.End = min(n, s.Start+v)
}

// Reset moves the cursor to 0 with an empty viewport.
func (s *Selection) Reset() {
	s.Index = 0
	s.Start = 0
	s.End = 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
