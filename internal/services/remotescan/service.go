package remotescan

import (
	"context"
	"log"
	"sync"
	"time"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
	"beamscan/internal/host/remote"
	"beamscan/internal/models"
	"beamscan/internal/services/capture"
	"beamscan/internal/services/notification"
	"beamscan/internal/services/payload"
	"beamscan/internal/services/permission"
	"beamscan/internal/services/scanner"
	"beamscan/internal/validation"

	"github.com/google/uuid"
)

const recordTimeout = 5 * time.Second

type host struct {
	camera     *remote.Camera
	authorizer *remote.Authorizer
	deviceID   string
}

type service struct {
	cfg            Config
	validator      validation.AddressValidator
	classifiers    map[scan.Mode]*payload.Classifier
	records        Recorder
	metrics        scanner.MetricsCollector
	captureMetrics capture.MetricsCollector
	registry       *scanner.Registry

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	hosts map[uuid.UUID]*host
}

func NewService(
	cfg Config,
	validator validation.AddressValidator,
	records Recorder,
	metrics scanner.MetricsCollector,
	captureMetrics capture.MetricsCollector,
) Service {
	if validator == nil {
		panic("address validator is required")
	}
	if records == nil {
		records = NoopRecorder{}
	}
	if metrics == nil {
		metrics = &scanner.NoopMetricsCollector{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &service{
		cfg:       cfg,
		validator: validator,
		classifiers: map[scan.Mode]*payload.Classifier{
			scan.ModePayment:  payload.NewClassifier(scan.ModePayment, validator),
			scan.ModeIdentity: payload.NewClassifier(scan.ModeIdentity, validator),
		},
		records:        records,
		metrics:        metrics,
		captureMetrics: captureMetrics,
		ctx:            ctx,
		cancel:         cancel,
		hosts:          make(map[uuid.UUID]*host),
	}
	s.registry = scanner.NewRegistry(cfg.Retention, s.record)
	s.registry.OnClosed(s.release)
	s.registry.OnRemove(s.forget)
	return s
}

func (s *service) Resolve(ctx context.Context, req ResolveRequest) (scan.Result, error) {
	classifier, ok := s.classifiers[req.Mode]
	if !ok {
		return scan.Result{}, ErrInvalidMode
	}

	res := classifier.Classify(req.Payload)
	s.metrics.RecordResult(res.Kind)

	rec := models.NewScanRecord(models.ScanSourceResolve, req.Mode, res, req.Payload, "")
	rec.DeviceID = req.DeviceID
	if err := s.records.Create(ctx, rec); err != nil {
		log.Printf("record resolve for device %s: %v", req.DeviceID, err)
	}
	return res, nil
}

func (s *service) Open(req OpenRequest) (*View, error) {
	if _, ok := s.classifiers[req.Mode]; !ok {
		return nil, ErrInvalidMode
	}

	h := &host{
		camera:     remote.NewCamera(req.DevicePresent),
		authorizer: remote.NewAuthorizer(req.Permission),
		deviceID:   req.DeviceID,
	}
	session := scanner.NewSession(scanner.Config{
		Mode:        req.Mode,
		RetryDelay:  s.cfg.RetryDelay,
		EventBuffer: s.cfg.EventBuffer,
	}, scanner.Deps{
		Gate:           permission.NewGate(h.authorizer),
		Hardware:       h.camera,
		Validator:      s.validator,
		Feedback:       h.camera,
		Notifier:       notification.NewService(req.DeviceID),
		Metrics:        s.metrics,
		CaptureMetrics: s.captureMetrics,
	})

	s.mu.Lock()
	s.hosts[session.ID()] = h
	s.mu.Unlock()

	s.registry.Add(session)
	session.Open(s.ctx)
	return s.view(session, h), nil
}

func (s *service) Get(id uuid.UUID) (*View, error) {
	session, h, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.view(session, h), nil
}

func (s *service) Answer(id uuid.UUID, granted bool) error {
	_, h, err := s.lookup(id)
	if err != nil {
		return err
	}
	return h.authorizer.Answer(granted)
}

func (s *service) Push(id uuid.UUID, value string) error {
	_, h, err := s.lookup(id)
	if err != nil {
		return err
	}
	return h.camera.Push(value)
}

func (s *service) Wait(ctx context.Context, id uuid.UUID) (scan.Result, error) {
	session, _, err := s.lookup(id)
	if err != nil {
		return scan.Result{}, err
	}
	return session.Wait(ctx)
}

func (s *service) Cancel(id uuid.UUID) error {
	return s.registry.Cancel(id)
}

func (s *service) Shutdown() {
	s.cancel()
	s.registry.CancelAll()
}

func (s *service) lookup(id uuid.UUID) (*scanner.Session, *host, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	h, ok := s.hosts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, domainErrors.ErrSessionNotFound
	}
	return session, h, nil
}

func (s *service) view(session *scanner.Session, h *host) *View {
	return &View{
		Status:       session.Status(),
		DeviceID:     h.deviceID,
		Prompting:    h.authorizer.Prompting(),
		Acknowledged: h.camera.Acknowledged(),
	}
}

// record persists the outcome of a finished session.
func (s *service) record(session *scanner.Session, o scanner.Outcome) {
	var failure string
	if o.Err != nil {
		failure = domainErrors.CodeOf(o.Err)
	}
	rec := models.NewScanRecord(models.ScanSourceSession, session.Mode(), o.Result, o.Payload, failure)
	rec.SessionID = o.SessionID.String()

	s.mu.RLock()
	if h, ok := s.hosts[o.SessionID]; ok {
		rec.DeviceID = h.deviceID
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.records.Create(ctx, rec); err != nil {
		log.Printf("record session %s: %v", o.SessionID, err)
	}
}

// release abandons a prompt the client left open. Nothing can answer it
// once the session is over.
func (s *service) release(id uuid.UUID) {
	s.mu.RLock()
	h, ok := s.hosts[id]
	s.mu.RUnlock()
	if ok {
		h.authorizer.Close()
	}
}

func (s *service) forget(id uuid.UUID) {
	s.mu.Lock()
	h, ok := s.hosts[id]
	delete(s.hosts, id)
	s.mu.Unlock()
	if ok {
		h.authorizer.Close()
	}
}
