package models

import (
	"testing"
	"time"

	"beamscan/internal/domain/scan"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "", Fingerprint(""))
	fp := Fingerprint("beam:abc")
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint("beam:abc"))
	assert.NotEqual(t, fp, Fingerprint("beam:abd"))
}

func TestNewScanRecord(t *testing.T) {
	amount := "3"
	rec := NewScanRecord(ScanSourceResolve, scan.ModePayment,
		scan.PaymentResult(scan.PaymentIntent{Address: "ab12", Amount: &amount}), "beam:ab12?amount=3", "")
	assert.Equal(t, "payment", rec.Outcome)
	assert.Equal(t, "ab12", rec.Address)
	assert.Equal(t, "3", *rec.Amount)
	assert.Empty(t, rec.FailureCode)

	rec = NewScanRecord(ScanSourceSession, scan.ModeIdentity,
		scan.IdentityResult(scan.IdentityPayload{ID: "7"}), `{"_id":7}`, "")
	assert.Equal(t, "identity", rec.Outcome)
	assert.Equal(t, "7", rec.IdentityID)

	rec = NewScanRecord(ScanSourceResolve, scan.ModeIdentity,
		scan.InvalidResult(scan.ReasonMalformedIdentity), "{}", "")
	assert.Equal(t, "invalid", rec.Outcome)
	assert.Equal(t, "malformed_identity", rec.FailureCode)

	rec = NewScanRecord(ScanSourceSession, scan.ModePayment, scan.Result{}, "", "PERMISSION_DENIED")
	assert.Equal(t, "PERMISSION_DENIED", rec.Outcome)
	assert.Empty(t, rec.PayloadHash)
}

func TestAddress_Filters(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(48 * time.Hour)

	forever := &Address{Own: true}
	forever.CreatedAt = created
	shortLived := &Address{Own: true, Duration: 24 * time.Hour}
	shortLived.CreatedAt = created
	contact := &Address{Own: false, Duration: time.Hour}
	contact.CreatedAt = created

	assert.False(t, forever.IsExpired(now))
	assert.True(t, shortLived.IsExpired(now))
	assert.True(t, shortLived.IsExpired(created.Add(24*time.Hour)))

	assert.True(t, forever.Matches(AddressActive, now))
	assert.False(t, shortLived.Matches(AddressActive, now))
	assert.True(t, shortLived.Matches(AddressExpired, now))
	assert.True(t, contact.Matches(AddressContacts, now))
	assert.False(t, contact.Matches(AddressExpired, now))
}

func TestParseAddressState(t *testing.T) {
	st, err := ParseAddressState("")
	assert.NoError(t, err)
	assert.Equal(t, AddressActive, st)

	_, err = ParseAddressState("archived")
	assert.Error(t, err)
}
