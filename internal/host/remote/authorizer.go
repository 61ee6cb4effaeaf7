package remote

import (
	"context"
	"sync"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
)

// Authorizer mirrors the client's camera authorization. The initial state is
// what the client's OS reports; a prompt waits for Answer or Close.
type Authorizer struct {
	mu        sync.Mutex
	status    scan.PermissionState
	pending   chan bool
	closed    chan struct{}
	closeOnce sync.Once
}

func NewAuthorizer(initial scan.PermissionState) *Authorizer {
	return &Authorizer{status: initial, closed: make(chan struct{})}
}

func (a *Authorizer) AuthorizationStatus() scan.PermissionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// SetStatus records a change made in the client's settings.
func (a *Authorizer) SetStatus(state scan.PermissionState) {
	a.mu.Lock()
	a.status = state
	a.mu.Unlock()
}

// RequestAccess opens a prompt and waits for the client's answer. It returns
// ErrSessionCancelled once the authorizer is closed.
func (a *Authorizer) RequestAccess(ctx context.Context) (bool, error) {
	a.mu.Lock()
	select {
	case <-a.closed:
		a.mu.Unlock()
		return false, domainErrors.ErrSessionCancelled
	default:
	}
	if a.pending == nil {
		a.pending = make(chan bool, 1)
	}
	answers := a.pending
	a.mu.Unlock()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-a.closed:
		return false, domainErrors.ErrSessionCancelled
	case granted := <-answers:
		a.mu.Lock()
		if granted {
			a.status = scan.PermissionAuthorized
		} else {
			a.status = scan.PermissionDenied
		}
		a.pending = nil
		a.mu.Unlock()
		return granted, nil
	}
}

// Prompting reports whether a prompt is waiting for an answer.
func (a *Authorizer) Prompting() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Answer delivers the user's answer to the outstanding prompt.
func (a *Authorizer) Answer(granted bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending == nil {
		return domainErrors.ErrNoPromptPending
	}
	select {
	case a.pending <- granted:
		return nil
	default:
		return domainErrors.ErrNoPromptPending
	}
}

// Close abandons any outstanding prompt and refuses new ones. The client
// can no longer answer once its session is gone.
func (a *Authorizer) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		close(a.closed)
		a.pending = nil
		a.mu.Unlock()
	})
}
