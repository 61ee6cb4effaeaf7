package models

import (
	"encoding/hex"

	"beamscan/internal/domain/scan"

	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

const (
	ScanSourceSession = "session" // camera session driven over the API
	ScanSourceResolve = "resolve" // payload decoded on the client
)

// ScanRecord is the history entry for one resolved scan. The raw payload is
// never stored, only its fingerprint.
type ScanRecord struct {
	gorm.Model
	SessionID   string `gorm:"index"`
	DeviceID    string `gorm:"index"`
	Source      string `gorm:"not null"`
	Mode        string `gorm:"not null"`
	Outcome     string `gorm:"not null;index"` // result kind or error code
	Address     string
	Amount      *string
	IdentityID  string
	FailureCode string
	PayloadHash string `gorm:"size:64;index"`
}

// Fingerprint returns the hex blake2b-256 digest of a raw payload.
func Fingerprint(payload string) string {
	if payload == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// NewScanRecord builds a record from a classified result. failureCode is set
// when the scan ended with an error instead of a result.
func NewScanRecord(source string, mode scan.Mode, res scan.Result, payload, failureCode string) *ScanRecord {
	rec := &ScanRecord{
		Source:      source,
		Mode:        string(mode),
		PayloadHash: Fingerprint(payload),
	}
	if failureCode != "" {
		rec.Outcome = failureCode
		rec.FailureCode = failureCode
		return rec
	}

	rec.Outcome = string(res.Kind)
	switch res.Kind {
	case scan.KindPayment:
		rec.Address = res.Payment.Address
		rec.Amount = res.Payment.Amount
	case scan.KindIdentity:
		rec.IdentityID = res.Identity.ID
	case scan.KindInvalid:
		rec.FailureCode = string(res.Reason)
	}
	return rec
}
