package permission

import (
	"context"

	"beamscan/internal/domain/scan"
)

// Authorizer is the host's camera authorization surface.
type Authorizer interface {
	// AuthorizationStatus reads the current state without side effects.
	AuthorizationStatus() scan.PermissionState
	// RequestAccess shows the host prompt and blocks until the user answers.
	RequestAccess(ctx context.Context) (granted bool, err error)
}
