package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the server reads from the environment.
type AppConfig struct {
	Port        string
	Env         string
	CORSOrigins string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	Scanner   ScannerConfig
	Validator ValidatorConfig
}

// ScannerConfig tunes scan sessions.
type ScannerConfig struct {
	// RetryDelay is how long the "try again" notice stays up before the
	// debounce latch is cleared.
	RetryDelay  time.Duration
	EventBuffer int
	// ResultWait caps the long-poll on a session result.
	ResultWait time.Duration
}

// ValidatorConfig selects the address validator used by the server.
type ValidatorConfig struct {
	Kind           string // "hex" or "bech32"
	Bech32Prefixes []string
	// Bech32Length pins the decoded payload size in bytes; 0 accepts any.
	Bech32Length int
	CacheTTL     time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the application configuration. Call LoadEnv first.
func Load() AppConfig {
	return AppConfig{
		Port:        GetEnv("PORT", "3000"),
		Env:         GetEnv("ENV", "development"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:5173"),

		DBDriver:   GetEnv("DB_DRIVER", "postgres"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBUser:     GetEnv("DB_USER", "postgres"),
		DBPassword: GetEnv("DB_PASSWORD", "postgres"),
		DBName:     GetEnv("DB_NAME", "beamscan"),
		DBPath:     GetEnv("DB_PATH", "beamscan.db"),

		RedisHost:     GetEnv("REDIS_HOST", "localhost"),
		RedisPort:     GetEnv("REDIS_PORT", "6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetIntEnv("REDIS_DB", 0),

		JWTSecret: GetEnv("JWT_SECRET", ""),

		Scanner: ScannerConfig{
			RetryDelay:  GetDurationEnv("SCAN_RETRY_DELAY", 2*time.Second),
			EventBuffer: GetIntEnv("SCAN_EVENT_BUFFER", 16),
			ResultWait:  GetDurationEnv("SCAN_RESULT_WAIT", 25*time.Second),
		},
		Validator: ValidatorConfig{
			Kind:           GetEnv("ADDRESS_VALIDATOR", "hex"),
			Bech32Prefixes: GetListEnv("ADDRESS_BECH32_PREFIXES", []string{"beam"}),
			Bech32Length:   GetIntEnv("ADDRESS_BECH32_LENGTH", 0),
			CacheTTL:       GetDurationEnv("ADDRESS_CACHE_TTL", 10*time.Minute),
		},
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("invalid duration for %s: %q, using %s", key, val, defaultVal)
	}
	return defaultVal
}

// GetListEnv returns a comma separated environment variable or a default value.
func GetListEnv(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
