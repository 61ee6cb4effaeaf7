package scanner

import (
	"time"

	"beamscan/internal/domain/scan"
)

// Feedback acknowledges that something was read (haptic or audio). It fires
// on every accepted payload, valid or not.
type Feedback interface {
	Acknowledge()
}

// Notifier shows the "please try again" notice for content errors.
type Notifier interface {
	TryAgain(reason scan.InvalidReason)
}

// MetricsCollector records scan session activity.
type MetricsCollector interface {
	RecordSessionOpened(mode scan.Mode)
	RecordSessionOutcome(mode scan.Mode, outcome string)
	RecordEvent(disposition string)
	RecordResult(kind scan.ResultKind)
	RecordResolveDuration(duration time.Duration)
}

// NoopFeedback is a no-op implementation of Feedback
type NoopFeedback struct{}

func (NoopFeedback) Acknowledge() {}

// NoopNotifier is a no-op implementation of Notifier
type NoopNotifier struct{}

func (NoopNotifier) TryAgain(scan.InvalidReason) {}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordSessionOpened(scan.Mode)          {}
func (n *NoopMetricsCollector) RecordSessionOutcome(scan.Mode, string) {}
func (n *NoopMetricsCollector) RecordEvent(string)                     {}
func (n *NoopMetricsCollector) RecordResult(scan.ResultKind)           {}
func (n *NoopMetricsCollector) RecordResolveDuration(time.Duration)    {}
