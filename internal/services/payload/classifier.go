package payload

import (
	"beamscan/internal/domain/scan"
	"beamscan/internal/validation"
)

// Classifier turns a raw decoded string into a scan result for one mode.
type Classifier struct {
	mode      scan.Mode
	validator validation.AddressValidator
}

// NewClassifier creates a classifier. The validator is required even in
// identity mode so a classifier can be built before the mode matters.
func NewClassifier(mode scan.Mode, validator validation.AddressValidator) *Classifier {
	if validator == nil {
		panic("address validator is required")
	}
	return &Classifier{mode: mode, validator: validator}
}

func (c *Classifier) Mode() scan.Mode {
	return c.mode
}

// Classify never fails: content problems come back as an invalid result.
func (c *Classifier) Classify(raw string) scan.Result {
	if c.mode == scan.ModeIdentity {
		return c.classifyIdentity(raw)
	}
	return c.classifyPayment(raw)
}

func (c *Classifier) classifyIdentity(raw string) scan.Result {
	if len(raw) > validation.MaxPayloadLength {
		return scan.InvalidResult(scan.ReasonMalformedIdentity)
	}
	identity, err := ParseIdentity(raw)
	if err != nil {
		return scan.InvalidResult(scan.ReasonMalformedIdentity)
	}
	return scan.IdentityResult(identity)
}

func (c *Classifier) classifyPayment(raw string) scan.Result {
	if len(raw) > validation.MaxPayloadLength {
		return scan.InvalidResult(scan.ReasonBadAddress)
	}
	address, amount := ParsePaymentURI(raw)
	if address == "" || !c.validator.IsValid(address) {
		return scan.InvalidResult(scan.ReasonBadAddress)
	}
	return scan.PaymentResult(scan.PaymentIntent{Address: address, Amount: amount})
}
