package capture

import (
	"sync"

	domainErrors "beamscan/internal/errors"
)

// Each Hardware is exclusive to one session at a time. Distinct hardware
// instances lease independently.
var lease = struct {
	mu     sync.Mutex
	owners map[Hardware]*Session
}{owners: make(map[Hardware]*Session)}

func acquireLease(s *Session) error {
	lease.mu.Lock()
	defer lease.mu.Unlock()

	if owner, ok := lease.owners[s.hw]; ok && owner != s {
		return domainErrors.Wrap(domainErrors.ErrDeviceUnavailable, "capture device held by session %s", owner.id)
	}
	lease.owners[s.hw] = s
	return nil
}

func releaseLease(s *Session) {
	lease.mu.Lock()
	defer lease.mu.Unlock()

	if lease.owners[s.hw] == s {
		delete(lease.owners, s.hw)
	}
}

// LeaseHeld reports whether a session currently owns hw.
func LeaseHeld(hw Hardware) bool {
	lease.mu.Lock()
	defer lease.mu.Unlock()
	_, ok := lease.owners[hw]
	return ok
}
