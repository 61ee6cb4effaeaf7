package remotescan

import (
	"context"

	"beamscan/internal/domain/scan"
	"beamscan/internal/models"

	"github.com/google/uuid"
)

// Service runs scan sessions whose camera lives on a remote client and
// resolves payloads the client decoded on its own.
type Service interface {
	// Resolve classifies one payload and records the result.
	Resolve(ctx context.Context, req ResolveRequest) (scan.Result, error)

	Open(req OpenRequest) (*View, error)
	Get(id uuid.UUID) (*View, error)
	Answer(id uuid.UUID, granted bool) error
	Push(id uuid.UUID, payload string) error
	// Wait blocks until the session resolves or ctx ends.
	Wait(ctx context.Context, id uuid.UUID) (scan.Result, error)
	Cancel(id uuid.UUID) error

	// Shutdown cancels every open session.
	Shutdown()
}

// Recorder persists scan history.
type Recorder interface {
	Create(ctx context.Context, rec *models.ScanRecord) error
}

// NoopRecorder discards records.
type NoopRecorder struct{}

func (NoopRecorder) Create(context.Context, *models.ScanRecord) error { return nil }
