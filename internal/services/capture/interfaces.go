package capture

import (
	"context"

	"beamscan/internal/domain/scan"
)

// Hardware is the host camera stack.
type Hardware interface {
	// DefaultDevice returns the default video device; ok is false when the
	// host has none.
	DefaultDevice() (device Device, ok bool)
}

// Device is one video device. StopRunning and Release must be safe after a
// partial setup.
type Device interface {
	AttachInput() error
	// AttachDecoder attaches the code decoder. deliver may be called from any
	// goroutine, once per decoded string.
	AttachDecoder(symbologies []scan.Symbology, deliver func(value string)) error
	StartRunning(ctx context.Context) error
	StopRunning()
	Release()
}

// MetricsCollector records capture activity.
type MetricsCollector interface {
	RecordCaptureStart(result string)
	RecordEventDropped()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordCaptureStart(string) {}
func (n *NoopMetricsCollector) RecordEventDropped()       {}
