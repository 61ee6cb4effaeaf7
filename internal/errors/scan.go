package errors

// Permission errors. Surfaced as "open settings" guidance, never retried.
var (
	ErrPermissionPending = &DomainError{
		Code:     "PERMISSION_NOT_DETERMINED",
		Message:  "camera permission has not been granted yet",
		Category: CategoryPermission,
	}
	ErrPermissionDenied = &DomainError{
		Code:     "PERMISSION_DENIED",
		Message:  "camera access denied",
		Category: CategoryPermission,
	}
	ErrPermissionRestricted = &DomainError{
		Code:     "PERMISSION_RESTRICTED",
		Message:  "camera access restricted on this device",
		Category: CategoryPermission,
	}
)

// Capture errors. Fatal to the session.
var (
	ErrDeviceUnavailable = &DomainError{
		Code:     "DEVICE_UNAVAILABLE",
		Message:  "no camera device available",
		Category: CategoryCapture,
	}
	ErrInputRejected = &DomainError{
		Code:     "INPUT_REJECTED",
		Message:  "camera input could not be attached",
		Category: CategoryCapture,
	}
	ErrOutputRejected = &DomainError{
		Code:     "OUTPUT_REJECTED",
		Message:  "code decoder could not be attached",
		Category: CategoryCapture,
	}
)

// Decode errors. Recoverable: the latch is reset and scanning continues.
var (
	ErrMalformedIdentity = &DomainError{
		Code:     "MALFORMED_IDENTITY",
		Message:  "identity payload is malformed",
		Category: CategoryDecode,
	}
	ErrBadAddress = &DomainError{
		Code:     "BAD_ADDRESS",
		Message:  "address is not valid",
		Category: CategoryDecode,
	}
)

// Session errors.
var (
	ErrSessionCancelled = &DomainError{
		Code:     "SESSION_CANCELLED",
		Message:  "scan session cancelled",
		Category: CategorySession,
	}
	ErrSessionNotFound = &DomainError{
		Code:     "SESSION_NOT_FOUND",
		Message:  "scan session not found",
		Category: CategorySession,
	}
	ErrCameraNotRunning = &DomainError{
		Code:     "CAMERA_NOT_RUNNING",
		Message:  "camera is not running",
		Category: CategoryCapture,
	}
	ErrNoPromptPending = &DomainError{
		Code:     "NO_PROMPT_PENDING",
		Message:  "no permission prompt is pending",
		Category: CategoryPermission,
	}
)

const (
	MessageResolved          = "QR code resolved"
	MessageTryAgain          = "QR code cannot be recognized. Please try again."
	MessageCameraUnavailable = "Camera is unavailable on this device."
	MessageCameraDenied      = "It looks like your privacy settings are preventing us from accessing your camera to do QR code scanning. Open Settings, turn the Camera on, and try again."
	MessageCameraRestricted  = "You've been restricted from using the camera on this device. Without camera access this feature won't work. Please contact the device owner so they can give you access."
	MessageCancelled         = "Scanning cancelled."
)

// UserMessage maps an error onto one of the user-visible outcomes. Internal
// detail never leaks through it.
func UserMessage(err error) string {
	if err == nil {
		return MessageResolved
	}
	de, ok := As(err)
	if !ok {
		return MessageCameraUnavailable
	}
	switch de {
	case ErrPermissionRestricted:
		return MessageCameraRestricted
	case ErrPermissionDenied, ErrPermissionPending:
		return MessageCameraDenied
	case ErrSessionCancelled:
		return MessageCancelled
	}
	if de.Category == CategoryDecode {
		return MessageTryAgain
	}
	return MessageCameraUnavailable
}
