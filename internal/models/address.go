package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AddressState string

const (
	AddressActive   AddressState = "active"   // own, not expired
	AddressExpired  AddressState = "expired"  // own, past its duration
	AddressContacts AddressState = "contacts" // saved peer addresses
)

func ParseAddressState(s string) (AddressState, error) {
	switch st := AddressState(s); st {
	case AddressActive, AddressExpired, AddressContacts:
		return st, nil
	case "":
		return AddressActive, nil
	default:
		return "", fmt.Errorf("invalid address state: %s", s)
	}
}

// Address is an address book entry. A zero Duration never expires.
type Address struct {
	gorm.Model
	WalletID string        `gorm:"not null;index"`
	Label    string        `gorm:"size:100"`
	Own      bool          `gorm:"not null;default:false;index"`
	Duration time.Duration `gorm:"not null;default:0"`
	// ExpiresAt is derived from CreatedAt and Duration for querying.
	ExpiresAt *time.Time `gorm:"index"`
}

// BeforeCreate fills ExpiresAt from the creation time.
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Duration > 0 {
		exp := a.CreatedAt.Add(a.Duration)
		a.ExpiresAt = &exp
	}
	return nil
}

func (a *Address) IsExpired(now time.Time) bool {
	if a.Duration <= 0 {
		return false
	}
	return !now.Before(a.CreatedAt.Add(a.Duration))
}

// Matches reports whether the address belongs under the given filter.
func (a *Address) Matches(state AddressState, now time.Time) bool {
	switch state {
	case AddressContacts:
		return !a.Own
	case AddressExpired:
		return a.Own && a.IsExpired(now)
	default:
		return a.Own && !a.IsExpired(now)
	}
}
