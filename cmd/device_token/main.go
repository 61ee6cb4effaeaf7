// Command device_token issues an API token for one scanning device.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"beamscan/internal/config"
	"beamscan/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	config.LoadEnv()

	secret := os.Getenv("JWT_SECRET")
	deviceID := os.Getenv("DEVICE_ID")
	if secret == "" || deviceID == "" {
		log.Fatal("JWT_SECRET and DEVICE_ID must be set in environment")
	}
	ttl := config.GetDurationEnv("DEVICE_TOKEN_TTL", 30*24*time.Hour)

	now := time.Now()
	token, err := middleware.IssueToken(secret, deviceID, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   deviceID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}

	log.Printf("Token for device %s expires %s", deviceID, now.Add(ttl).Format(time.RFC3339))
	fmt.Println(token)
}
