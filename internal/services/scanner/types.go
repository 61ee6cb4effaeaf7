package scanner

import (
	"time"

	"beamscan/internal/domain/scan"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseCreated            Phase = "created"
	PhaseAwaitingPermission Phase = "awaiting_permission"
	PhaseStarting           Phase = "starting"
	PhaseScanning           Phase = "scanning"
	PhaseFinished           Phase = "finished"
)

// Event dispositions
const (
	EventAccepted  = "accepted"
	EventDebounced = "debounced"
)

// Outcome is the one terminal value of a session: a successful result or
// the error that ended it.
type Outcome struct {
	SessionID  uuid.UUID
	Result     scan.Result
	Err        error
	ResolvedAt time.Time
	// Payload is the raw value that produced Result. Empty on errors.
	Payload string
}

// Status is a point-in-time view of a session.
type Status struct {
	ID         uuid.UUID
	Mode       scan.Mode
	Phase      Phase
	Permission scan.PermissionState
	Capturing  bool
	Attempts   int
	LastReason scan.InvalidReason
	Outcome    *Outcome
}
