package capture

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
)

const DefaultEventBuffer = 16

type state int

const (
	stateIdle state = iota
	stateStarting
	stateRunning
	stateStopped
)

// Config tunes a capture session.
type Config struct {
	Symbologies []scan.Symbology
	EventBuffer int
}

// Session owns the camera for one scan session.
type Session struct {
	id      string
	hw      Hardware
	cfg     Config
	metrics MetricsCollector

	mu     sync.Mutex
	state  state
	device Device
	events chan scan.RawPayload
	handle *Handle
}

// Handle is a running capture. It is valid until Stop.
type Handle struct {
	session *Session
	events  <-chan scan.RawPayload
}

// Events delivers decoded strings in arrival order and closes on stop.
func (h *Handle) Events() <-chan scan.RawPayload {
	return h.events
}

func (h *Handle) Stop() {
	h.session.Stop()
}

// NewSession creates a stopped capture session. id labels the owner in
// errors and logs.
func NewSession(id string, hw Hardware, cfg Config, metrics MetricsCollector) *Session {
	if hw == nil {
		panic("hardware is required")
	}
	if len(cfg.Symbologies) == 0 {
		cfg.Symbologies = scan.DefaultSymbologies
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultEventBuffer
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &Session{id: id, hw: hw, cfg: cfg, metrics: metrics}
}

// Start acquires the device, attaches input and decoder, and starts
// streaming. On failure nothing stays acquired. Calling Start on a running
// session returns its handle.
func (s *Session) Start(ctx context.Context) (*Handle, error) {
	s.mu.Lock()
	switch s.state {
	case stateRunning:
		h := s.handle
		s.mu.Unlock()
		return h, nil
	case stateStarting:
		s.mu.Unlock()
		return nil, fmt.Errorf("capture session %s is already starting", s.id)
	}
	s.state = stateStarting
	s.mu.Unlock()

	h, err := s.start(ctx)
	if err != nil {
		s.metrics.RecordCaptureStart(domainErrors.CodeOf(err))
		return nil, err
	}
	s.metrics.RecordCaptureStart("ok")
	return h, nil
}

func (s *Session) start(ctx context.Context) (*Handle, error) {
	if err := acquireLease(s); err != nil {
		s.reset()
		return nil, err
	}

	device, ok := s.hw.DefaultDevice()
	if !ok || device == nil {
		s.reset()
		releaseLease(s)
		return nil, domainErrors.ErrDeviceUnavailable
	}

	if err := device.AttachInput(); err != nil {
		s.abort(device)
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInputRejected, err)
	}

	s.mu.Lock()
	s.device = device
	s.events = make(chan scan.RawPayload, s.cfg.EventBuffer)
	s.mu.Unlock()

	if err := device.AttachDecoder(s.cfg.Symbologies, s.deliver); err != nil {
		s.abort(device)
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrOutputRejected, err)
	}

	err := device.StartRunning(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	s.mu.Lock()
	if err == nil && s.state != stateStarting {
		err = fmt.Errorf("capture session %s stopped while starting", s.id)
	}
	if err != nil {
		s.mu.Unlock()
		s.abort(device)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDeviceUnavailable, err)
	}
	s.state = stateRunning
	s.handle = &Handle{session: s, events: s.events}
	h := s.handle
	s.mu.Unlock()

	log.Printf("capture session %s running", s.id)
	return h, nil
}

// Stop ends streaming and releases the device. It is idempotent. A Stop
// during Start makes Start tear the device down when it returns.
func (s *Session) Stop() {
	s.mu.Lock()
	switch s.state {
	case stateStarting:
		s.state = stateStopped
		s.mu.Unlock()
		return
	case stateRunning:
	default:
		s.mu.Unlock()
		return
	}
	device := s.detachLocked()
	s.mu.Unlock()

	device.StopRunning()
	device.Release()
	releaseLease(s)
	log.Printf("capture session %s stopped", s.id)
}

// Running reports whether the device is streaming.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

// deliver is the decoder callback. It never blocks the host.
func (s *Session) deliver(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.events == nil || (s.state != stateRunning && s.state != stateStarting) {
		return
	}
	select {
	case s.events <- scan.RawPayload{Value: value, ReceivedAt: time.Now()}:
	default:
		s.metrics.RecordEventDropped()
	}
}

func (s *Session) detachLocked() Device {
	device := s.device
	s.device = nil
	if s.events != nil {
		close(s.events)
		s.events = nil
	}
	s.handle = nil
	s.state = stateStopped
	return device
}

func (s *Session) abort(device Device) {
	s.mu.Lock()
	s.detachLocked()
	s.mu.Unlock()

	device.StopRunning()
	device.Release()
	releaseLease(s)
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = stateStopped
	s.mu.Unlock()
}
