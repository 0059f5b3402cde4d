package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rpos/internal/config"
	"rpos/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func doReq(t *testing.T, cfg config.Config, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Use(middleware.Maintenance(cfg))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMaintenance_Disabled(t *testing.T) {
	rec := doReq(t, config.Config{MaintenanceMode: false}, "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaintenance_EnabledBlocks(t *testing.T) {
	rec := doReq(t, config.Config{MaintenanceMode: true}, "10.0.0.1:1234")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMaintenance_AllowlistedIPPasses(t *testing.T) {
	cfg := config.Config{
		MaintenanceMode:     true,
		MaintenanceAllowIPs: []string{"10.0.0.1"},
	}
	rec := doReq(t, cfg, "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doReq(t, cfg, "10.0.0.2:1234")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
