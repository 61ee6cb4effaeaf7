package validation

import (
	"context"
	"encoding/hex"
	"log"
	"time"

	"github.com/btcsuite/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// AddressValidator decides whether a candidate string is a structurally
// valid wallet address. Address semantics belong to the wallet core; callers
// only ask.
type AddressValidator interface {
	IsValid(candidate string) bool
}

// ValidatorFunc adapts a plain predicate to AddressValidator.
type ValidatorFunc func(candidate string) bool

func (f ValidatorFunc) IsValid(candidate string) bool {
	return f(candidate)
}

// HexValidator accepts hex encoded wallet IDs of bounded length.
type HexValidator struct {
	MinLength int
	MaxLength int
}

func NewHexValidator() *HexValidator {
	return &HexValidator{MinLength: MinHexAddressLength, MaxLength: MaxHexAddressLength}
}

func (v *HexValidator) IsValid(candidate string) bool {
	if len(candidate) < v.MinLength || len(candidate) > v.MaxLength {
		return false
	}
	// Odd lengths are allowed; the wallet core left-pads wallet IDs.
	padded := candidate
	if len(padded)%2 == 1 {
		padded = "0" + padded
	}
	_, err := hex.DecodeString(padded)
	return err == nil
}

// Bech32Validator accepts bech32 addresses with one of the allowed
// human-readable prefixes. PayloadLength, when set, pins the decoded size.
type Bech32Validator struct {
	Prefixes      []string
	PayloadLength int
}

func NewBech32Validator(prefixes []string, payloadLength int) *Bech32Validator {
	return &Bech32Validator{Prefixes: prefixes, PayloadLength: payloadLength}
}

func (v *Bech32Validator) IsValid(candidate string) bool {
	prefix, data, err := bech32.Decode(candidate)
	if err != nil {
		return false
	}
	if !v.allowed(prefix) {
		return false
	}
	if v.PayloadLength == 0 {
		return true
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return false
	}
	return len(conv) == v.PayloadLength
}

func (v *Bech32Validator) allowed(prefix string) bool {
	if len(v.Prefixes) == 0 {
		return true
	}
	for _, p := range v.Prefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

// VerdictStore persists validator verdicts.
type VerdictStore interface {
	GetVerdict(ctx context.Context, key string) (valid bool, found bool, err error)
	SetVerdict(ctx context.Context, key string, valid bool, ttl time.Duration) error
}

// CachedValidator memoises verdicts of an expensive validator. Store
// failures fall through to the wrapped validator.
type CachedValidator struct {
	next    AddressValidator
	store   VerdictStore
	ttl     time.Duration
	timeout time.Duration
}

const verdictKeyPrefix = "address:verdict:"

func NewCachedValidator(next AddressValidator, store VerdictStore, ttl time.Duration) *CachedValidator {
	if next == nil {
		panic("validator is required")
	}
	if store == nil {
		panic("verdict store is required")
	}
	return &CachedValidator{
		next:    next,
		store:   store,
		ttl:     ttl,
		timeout: 250 * time.Millisecond,
	}
}

func (c *CachedValidator) IsValid(candidate string) bool {
	key := VerdictKey(candidate)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	valid, found, err := c.store.GetVerdict(ctx, key)
	if err != nil {
		log.Printf("address verdict lookup failed: %v", err)
	}
	if err == nil && found {
		return valid
	}

	valid = c.next.IsValid(candidate)
	if err := c.store.SetVerdict(ctx, key, valid, c.ttl); err != nil {
		log.Printf("address verdict store failed: %v", err)
	}
	return valid
}

// VerdictKey derives a fixed-size cache key so adversarial input cannot
// bloat the key space.
func VerdictKey(candidate string) string {
	sum := blake2b.Sum256([]byte(candidate))
	return verdictKeyPrefix + hex.EncodeToString(sum[:])
}
