package scanner

import (
	"sync"
	"time"

	domainErrors "beamscan/internal/errors"

	"github.com/google/uuid"
)

// OutcomeHook is called once per session after it resolves.
type OutcomeHook func(s *Session, o Outcome)

// Registry tracks live sessions so callers can address them by ID.
// Finished sessions stay visible for the retention period.
type Registry struct {
	retention time.Duration
	hook      OutcomeHook
	onClosed  func(id uuid.UUID)
	onRemove  func(id uuid.UUID)

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(retention time.Duration, hook OutcomeHook) *Registry {
	return &Registry{
		retention: retention,
		hook:      hook,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// OnClosed sets a callback invoked once a session has released its camera,
// before the retention period starts. Set it before the first Add.
func (r *Registry) OnClosed(fn func(id uuid.UUID)) {
	r.onClosed = fn
}

// OnRemove sets a callback invoked after a session is forgotten. Set it
// before the first Add.
func (r *Registry) OnRemove(fn func(id uuid.UUID)) {
	r.onRemove = fn
}

// Add registers s. The registry forgets it retention after it resolves.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	go func() {
		<-s.Done()
		if r.hook != nil {
			if o, ok := s.Outcome(); ok {
				r.hook(s, o)
			}
		}
		<-s.Closed()
		if r.onClosed != nil {
			r.onClosed(s.ID())
		}
		if r.retention <= 0 {
			r.remove(s.ID())
			return
		}
		time.AfterFunc(r.retention, func() { r.remove(s.ID()) })
	}()
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}
	return s, nil
}

// Cancel cancels the session with the given ID.
func (r *Registry) Cancel(id uuid.UUID) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	s.Cancel()
	return nil
}

// CancelAll cancels every tracked session and waits for each to release
// its camera. Used on shutdown.
func (r *Registry) CancelAll() {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		s.Cancel()
	}
	for _, s := range sessions {
		<-s.Closed()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if r.onRemove != nil {
		r.onRemove(id)
	}
}
