// Package debounce keeps a camera that fires repeatedly on the same code from
// producing more than one resolution at a time.
package debounce

import (
	"sync"

	"beamscan/internal/domain/scan"
)

// Latch is a single-slot guard. The first accepted payload occupies it until
// Reset.
type Latch struct {
	mu   sync.Mutex
	held *scan.RawPayload
}

func NewLatch() *Latch {
	return &Latch{}
}

// Accept takes raw into the latch if it is empty and reports whether it did.
func (l *Latch) Accept(raw scan.RawPayload) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held != nil {
		return false
	}
	l.held = &raw
	return true
}

// Reset empties the latch so the next payload is accepted.
func (l *Latch) Reset() {
	l.mu.Lock()
	l.held = nil
	l.mu.Unlock()
}

// Held returns the payload currently occupying the latch.
func (l *Latch) Held() (scan.RawPayload, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held == nil {
		return scan.RawPayload{}, false
	}
	return *l.held, true
}
