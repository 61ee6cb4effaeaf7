package notification

import (
	"log"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
)

// Service logs the "try again" notice shown to a scanning device. Remote
// clients read the notice from the session status.
type Service struct {
	deviceID string
}

// NewService creates a notifier for one device.
func NewService(deviceID string) *Service {
	if deviceID == "" {
		deviceID = "anonymous"
	}
	return &Service{deviceID: deviceID}
}

// TryAgain logs a content error notice.
func (s *Service) TryAgain(reason scan.InvalidReason) {
	log.Printf("Notify device %s: %s (%s)", s.deviceID, domainErrors.MessageTryAgain, reason)
}
