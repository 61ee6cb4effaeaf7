package permission

import (
	"context"
	"fmt"
	"sync"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"

	"golang.org/x/sync/singleflight"
)

const promptKey = "camera"

// Gate decides whether capture may start. Only Undetermined can move, and
// only through a single prompt; every other state is changed by the host.
type Gate struct {
	host    Authorizer
	prompts singleflight.Group

	mu       sync.Mutex
	answered *scan.PermissionState
}

func NewGate(host Authorizer) *Gate {
	if host == nil {
		panic("authorizer is required")
	}
	return &Gate{host: host}
}

// Query returns the current state. While the host still reports
// Undetermined after a prompt was answered, the answer is returned.
func (g *Gate) Query() scan.PermissionState {
	state := g.host.AuthorizationStatus()
	if state != scan.PermissionUndetermined {
		return state
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.answered != nil {
		return *g.answered
	}
	return state
}

// Allowed reports whether capture may start.
func (g *Gate) Allowed() bool {
	return g.Query() == scan.PermissionAuthorized
}

// RequestIfUndetermined prompts the user when the state is Undetermined and
// returns the resulting state. Concurrent callers share one outstanding
// prompt. A cancelled ctx returns at once; the prompt keeps running and its
// answer is still recorded.
func (g *Gate) RequestIfUndetermined(ctx context.Context) (scan.PermissionState, error) {
	if state := g.Query(); state != scan.PermissionUndetermined {
		return state, nil
	}

	ch := g.prompts.DoChan(promptKey, func() (interface{}, error) {
		if state := g.Query(); state != scan.PermissionUndetermined {
			return state, nil
		}

		granted, err := g.host.RequestAccess(context.WithoutCancel(ctx))
		if err != nil {
			return nil, fmt.Errorf("camera permission request failed: %w", err)
		}

		state := scan.PermissionDenied
		if granted {
			state = scan.PermissionAuthorized
		}
		g.mu.Lock()
		g.answered = &state
		g.mu.Unlock()
		return state, nil
	})

	select {
	case <-ctx.Done():
		return scan.PermissionUndetermined, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return scan.PermissionUndetermined, res.Err
		}
		return res.Val.(scan.PermissionState), nil
	}
}

// ErrorFor maps a state that blocks capture onto its permission error.
// Authorized maps to nil.
func ErrorFor(state scan.PermissionState) error {
	switch state {
	case scan.PermissionAuthorized:
		return nil
	case scan.PermissionDenied:
		return domainErrors.ErrPermissionDenied
	case scan.PermissionRestricted:
		return domainErrors.ErrPermissionRestricted
	default:
		return domainErrors.ErrPermissionPending
	}
}
