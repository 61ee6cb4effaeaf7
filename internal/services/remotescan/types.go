package remotescan

import (
	"time"

	"beamscan/internal/domain/scan"
	"beamscan/internal/services/scanner"
)

// Config holds the session defaults applied to every remote session.
type Config struct {
	RetryDelay  time.Duration
	EventBuffer int
	// Retention keeps finished sessions addressable for result polling.
	Retention time.Duration
}

type ResolveRequest struct {
	Mode     scan.Mode
	Payload  string
	DeviceID string
}

type OpenRequest struct {
	Mode scan.Mode
	// Permission is the OS camera authorization the client reports.
	Permission    scan.PermissionState
	DevicePresent bool
	DeviceID      string
}

// View is a session status plus what the remote client needs to drive it.
type View struct {
	scanner.Status
	DeviceID     string
	Prompting    bool
	Acknowledged int
}
