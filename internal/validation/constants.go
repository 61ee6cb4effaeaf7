package validation

const (
	// MaxPayloadLength bounds a scanned string; longer input is never a
	// valid address or identity.
	MaxPayloadLength = 4096

	// Beam wallet IDs are hex encoded.
	MinHexAddressLength = 8
	MaxHexAddressLength = 80

	MaxLabelLength = 100
)
