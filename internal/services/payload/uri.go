package payload

import (
	"net/url"
	"strings"
)

const (
	// PaymentScheme is matched exactly; no case folding or trimming.
	PaymentScheme = "beam:"
	amountKey     = "amount"
)

// ParsePaymentURI splits a payment payload of the form
// ["beam:"] address ["?" query] into its candidate address and optional
// amount. The amount is returned as scanned. When the query repeats
// "amount", the first occurrence wins.
func ParsePaymentURI(raw string) (address string, amount *string) {
	rest := strings.TrimPrefix(raw, PaymentScheme)

	address, query, hasQuery := strings.Cut(rest, "?")
	if !hasQuery {
		return address, nil
	}

	if v, ok := queryValue(query, amountKey); ok {
		amount = &v
	}
	return address, amount
}

// BuildPaymentURI formats an intent in the same grammar ParsePaymentURI reads.
func BuildPaymentURI(address string, amount *string) string {
	uri := PaymentScheme + address
	if amount != nil {
		uri += "?" + amountKey + "=" + url.QueryEscape(*amount)
	}
	return uri
}

// queryValue returns the first value for key in an &-separated,
// form-encoded query. Pairs that fail to decode are compared raw.
func queryValue(query, key string) (string, bool) {
	for query != "" {
		var pair string
		pair, query, _ = strings.Cut(query, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if unescape(k) != key {
			continue
		}
		return unescape(v), true
	}
	return "", false
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
