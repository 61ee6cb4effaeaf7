package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"beamscan/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) HealthCheck(ctx context.Context) error { return p.err }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name   string
		cache  Pinger
		code   int
		status string
		redis  string
	}{
		{"no cache", nil, http.StatusOK, "ok", "disabled"},
		{"cache up", stubPinger{}, http.StatusOK, "ok", "connected"},
		{"cache down", stubPinger{err: assert.AnError}, http.StatusServiceUnavailable, "degraded", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := repositories.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
			require.NoError(t, err)
			t.Cleanup(func() {
				sqlDB, _ := db.DB()
				sqlDB.Close()
			})

			app := fiber.New()
			app.Get("/health", NewHealthHandler(db, tt.cache).Check)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			var body struct {
				Status   string            `json:"status"`
				Services map[string]string `json:"services"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "connected", body.Services["database"])
			assert.Equal(t, tt.redis, body.Services["redis"])
		})
	}
}
