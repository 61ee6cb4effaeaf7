package payload

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
)

const identityField = "_id"

// ParseIdentity reads a bot pairing payload: a JSON object whose "_id" is a
// non-negative integer. Integral numbers written with a fraction or exponent
// (42.0, 4.2e1) are normalised.
func ParseIdentity(raw string) (scan.IdentityPayload, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return scan.IdentityPayload{}, domainErrors.ErrMalformedIdentity
	}
	if dec.More() {
		return scan.IdentityPayload{}, domainErrors.ErrMalformedIdentity
	}

	num, ok := obj[identityField].(json.Number)
	if !ok {
		return scan.IdentityPayload{}, domainErrors.ErrMalformedIdentity
	}

	id, ok := normaliseID(num)
	if !ok {
		return scan.IdentityPayload{}, domainErrors.ErrMalformedIdentity
	}
	return scan.IdentityPayload{ID: id, Raw: raw}, nil
}

func normaliseID(num json.Number) (string, bool) {
	if n, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
		return strconv.FormatUint(n, 10), true
	}
	f, err := num.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return "", false
	}
	return strconv.FormatUint(uint64(f), 10), true
}
