package scan

import (
	"fmt"
	"time"
)

type PermissionState string
type Mode string
type Symbology string
type ResultKind string
type InvalidReason string

const (
	// Camera authorization as reported by the host
	PermissionUndetermined PermissionState = "undetermined"
	PermissionAuthorized   PermissionState = "authorized"
	PermissionDenied       PermissionState = "denied"
	PermissionRestricted   PermissionState = "restricted"

	// Scan modes
	ModePayment  Mode = "payment"  // beam:<address>?amount=<amount>
	ModeIdentity Mode = "identity" // {"_id": <n>} for bot pairing

	// Decodable symbologies
	SymbologyEAN8    Symbology = "ean8"
	SymbologyEAN13   Symbology = "ean13"
	SymbologyPDF417  Symbology = "pdf417"
	SymbologyQR      Symbology = "qr"
	SymbologyAztec   Symbology = "aztec"
	SymbologyCode128 Symbology = "code128"

	// Result kinds
	KindPayment  ResultKind = "payment"
	KindIdentity ResultKind = "identity"
	KindInvalid  ResultKind = "invalid"

	// Invalid reasons
	ReasonMalformedIdentity InvalidReason = "malformed_identity"
	ReasonBadAddress        InvalidReason = "bad_address"
)

// DefaultSymbologies covers retail barcodes and 2D matrix codes.
var DefaultSymbologies = []Symbology{
	SymbologyEAN8,
	SymbologyEAN13,
	SymbologyPDF417,
	SymbologyQR,
	SymbologyAztec,
	SymbologyCode128,
}

func (s PermissionState) String() string {
	return string(s)
}

func (m Mode) String() string {
	return string(m)
}

// ParsePermissionState accepts the wire names used by clients.
func ParsePermissionState(s string) (PermissionState, error) {
	switch st := PermissionState(s); st {
	case PermissionUndetermined, PermissionAuthorized, PermissionDenied, PermissionRestricted:
		return st, nil
	case "":
		return PermissionUndetermined, nil
	default:
		return "", fmt.Errorf("invalid permission state: %s", s)
	}
}

// ParseMode accepts the wire names used by clients.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePayment, ModeIdentity:
		return m, nil
	default:
		return "", fmt.Errorf("invalid scan mode: %s", s)
	}
}

// RawPayload is one decode event from the camera.
type RawPayload struct {
	Value      string
	ReceivedAt time.Time
}

// PaymentIntent is a validated recipient address with an optional amount.
// Amount is passed through as scanned.
type PaymentIntent struct {
	Address string  `json:"address"`
	Amount  *string `json:"amount,omitempty"`
}

// IdentityPayload identifies a peer for bot pairing.
type IdentityPayload struct {
	ID  string `json:"id"`
	Raw string `json:"raw"`
}

// Result is the outcome of classifying one accepted payload.
type Result struct {
	Kind     ResultKind       `json:"kind"`
	Payment  *PaymentIntent   `json:"payment,omitempty"`
	Identity *IdentityPayload `json:"identity,omitempty"`
	Reason   InvalidReason    `json:"reason,omitempty"`
}

func PaymentResult(intent PaymentIntent) Result {
	return Result{Kind: KindPayment, Payment: &intent}
}

func IdentityResult(identity IdentityPayload) Result {
	return Result{Kind: KindIdentity, Identity: &identity}
}

func InvalidResult(reason InvalidReason) Result {
	return Result{Kind: KindInvalid, Reason: reason}
}

// IsSuccess reports whether the result ends the session.
func (r Result) IsSuccess() bool {
	return r.Kind == KindPayment || r.Kind == KindIdentity
}
