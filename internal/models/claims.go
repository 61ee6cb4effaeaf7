package models

import "github.com/golang-jwt/jwt/v5"

// ScannerClaims identify the device a client scans from.
type ScannerClaims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"device_id"`
}
