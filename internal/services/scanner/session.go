package scanner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
	"beamscan/internal/services/capture"
	"beamscan/internal/services/debounce"
	"beamscan/internal/services/payload"
	"beamscan/internal/services/permission"
	"beamscan/internal/validation"

	"github.com/google/uuid"
)

// Config fixes the behaviour of one session.
type Config struct {
	Mode scan.Mode
	// RetryDelay keeps the latch closed after a content error while the
	// "try again" notice is shown. Zero resets immediately.
	RetryDelay  time.Duration
	EventBuffer int
	Symbologies []scan.Symbology
}

// Deps are the collaborators of a session. Gate, Hardware and Validator are
// required.
type Deps struct {
	Gate           *permission.Gate
	Hardware       capture.Hardware
	Validator      validation.AddressValidator
	Feedback       Feedback
	Notifier       Notifier
	Metrics        MetricsCollector
	CaptureMetrics capture.MetricsCollector
}

// Session is one scan from camera start to a delivered outcome. It owns
// its capture session and releases it on every exit path.
type Session struct {
	id         uuid.UUID
	cfg        Config
	gate       *permission.Gate
	capture    *capture.Session
	classifier *payload.Classifier
	latch      *debounce.Latch
	feedback   Feedback
	notifier   Notifier
	metrics    MetricsCollector

	ctx       context.Context
	cancel    context.CancelFunc
	openOnce  sync.Once
	closeDone sync.Once
	closed    chan struct{}

	resolveOnce sync.Once
	resolved    chan struct{}

	mu         sync.Mutex
	phase      Phase
	attempts   int
	lastReason scan.InvalidReason
	outcome    *Outcome
	openedAt   time.Time
}

func NewSession(cfg Config, deps Deps) *Session {
	if deps.Gate == nil {
		panic("permission gate is required")
	}
	if deps.Hardware == nil {
		panic("capture hardware is required")
	}
	if deps.Feedback == nil {
		deps.Feedback = NoopFeedback{}
	}
	if deps.Notifier == nil {
		deps.Notifier = NoopNotifier{}
	}
	if deps.Metrics == nil {
		deps.Metrics = &NoopMetricsCollector{}
	}
	if cfg.Mode == "" {
		cfg.Mode = scan.ModePayment
	}

	id := uuid.New()
	return &Session{
		id:   id,
		cfg:  cfg,
		gate: deps.Gate,
		capture: capture.NewSession(id.String(), deps.Hardware, capture.Config{
			Symbologies: cfg.Symbologies,
			EventBuffer: cfg.EventBuffer,
		}, deps.CaptureMetrics),
		classifier: payload.NewClassifier(cfg.Mode, deps.Validator),
		latch:      debounce.NewLatch(),
		feedback:   deps.Feedback,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		closed:     make(chan struct{}),
		resolved:   make(chan struct{}),
		phase:      PhaseCreated,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Mode() scan.Mode {
	return s.cfg.Mode
}

// Open starts the session in the background. Cancelling ctx cancels the
// session. Calls after the first are no-ops.
func (s *Session) Open(ctx context.Context) {
	s.openOnce.Do(func() {
		s.ctx, s.cancel = context.WithCancel(ctx)
		s.mu.Lock()
		s.openedAt = time.Now()
		s.mu.Unlock()
		s.metrics.RecordSessionOpened(s.cfg.Mode)
		log.Printf("scan session %s opened (%s)", s.id, s.cfg.Mode)
		go s.run()
	})
}

// Cancel ends the session. The outcome becomes ErrSessionCancelled unless
// one was already delivered. Safe to call repeatedly and before Open.
func (s *Session) Cancel() {
	s.finish(Outcome{Err: domainErrors.ErrSessionCancelled})

	// A session that was never opened has nothing running.
	s.openOnce.Do(s.closeOnce)
	if s.cancel != nil {
		s.cancel()
	}
	s.capture.Stop()
}

// Done is closed once the outcome is available.
func (s *Session) Done() <-chan struct{} {
	return s.resolved
}

// Closed is closed once the capture device has been released.
func (s *Session) Closed() <-chan struct{} {
	return s.closed
}

// Outcome returns the delivered outcome, if any.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Wait blocks until the session resolves or ctx ends.
func (s *Session) Wait(ctx context.Context) (scan.Result, error) {
	select {
	case <-ctx.Done():
		return scan.Result{}, ctx.Err()
	case <-s.resolved:
		o, _ := s.Outcome()
		return o.Result, o.Err
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	st := Status{
		ID:         s.id,
		Mode:       s.cfg.Mode,
		Phase:      s.phase,
		Attempts:   s.attempts,
		LastReason: s.lastReason,
	}
	if s.outcome != nil {
		o := *s.outcome
		st.Outcome = &o
	}
	s.mu.Unlock()

	st.Permission = s.gate.Query()
	st.Capturing = s.capture.Running()
	return st
}

func (s *Session) run() {
	defer s.closeOnce()
	defer s.capture.Stop()

	s.setPhase(PhaseAwaitingPermission)
	state, err := s.gate.RequestIfUndetermined(s.ctx)
	if s.ctx.Err() != nil {
		s.finish(Outcome{Err: domainErrors.ErrSessionCancelled})
		return
	}
	if err != nil {
		s.finish(Outcome{Err: fmt.Errorf("%w: %v", domainErrors.ErrPermissionPending, err)})
		return
	}
	if err := permission.ErrorFor(state); err != nil {
		s.finish(Outcome{Err: err})
		return
	}

	s.setPhase(PhaseStarting)
	handle, err := s.capture.Start(s.ctx)
	if s.ctx.Err() != nil {
		s.finish(Outcome{Err: domainErrors.ErrSessionCancelled})
		return
	}
	if err != nil {
		s.finish(Outcome{Err: err})
		return
	}

	s.setPhase(PhaseScanning)
	s.scan(handle)
}

func (s *Session) scan(handle *capture.Handle) {
	var (
		timer *time.Timer
		retry <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			s.finish(Outcome{Err: domainErrors.ErrSessionCancelled})
			return

		case <-retry:
			s.latch.Reset()
			retry = nil

		case raw, ok := <-handle.Events():
			if !ok {
				s.finish(Outcome{Err: domainErrors.Wrap(domainErrors.ErrDeviceUnavailable, "capture stopped")})
				return
			}
			if !s.latch.Accept(raw) {
				s.metrics.RecordEvent(EventDebounced)
				continue
			}
			s.metrics.RecordEvent(EventAccepted)
			s.feedback.Acknowledge()

			res := s.classifier.Classify(raw.Value)
			s.metrics.RecordResult(res.Kind)
			if res.IsSuccess() {
				s.finish(Outcome{Result: res, Payload: raw.Value})
				return
			}

			s.mu.Lock()
			s.attempts++
			s.lastReason = res.Reason
			s.mu.Unlock()
			s.notifier.TryAgain(res.Reason)

			if s.cfg.RetryDelay <= 0 {
				s.latch.Reset()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.cfg.RetryDelay)
			} else {
				timer.Reset(s.cfg.RetryDelay)
			}
			retry = timer.C
		}
	}
}

// finish records the first outcome. Later outcomes are discarded.
func (s *Session) finish(o Outcome) {
	s.resolveOnce.Do(func() {
		o.SessionID = s.id
		o.ResolvedAt = time.Now()

		s.mu.Lock()
		s.outcome = &o
		s.phase = PhaseFinished
		openedAt := s.openedAt
		s.mu.Unlock()

		label := outcomeLabel(o)
		s.metrics.RecordSessionOutcome(s.cfg.Mode, label)
		if !openedAt.IsZero() {
			s.metrics.RecordResolveDuration(o.ResolvedAt.Sub(openedAt))
		}
		log.Printf("scan session %s finished: %s", s.id, label)
		close(s.resolved)
	})
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	if s.phase != PhaseFinished {
		s.phase = p
	}
	s.mu.Unlock()
}

func (s *Session) closeOnce() {
	s.closeDone.Do(func() { close(s.closed) })
}

func outcomeLabel(o Outcome) string {
	if o.Err != nil {
		return domainErrors.CodeOf(o.Err)
	}
	return string(o.Result.Kind)
}
