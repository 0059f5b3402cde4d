package middleware

import (
	"net/http"

	"rpos/internal/config"

	"github.com/labstack/echo/v4"
)

// Maintenanceはメンテナンスモードのゲート。
// グローバル変数ではなくConfigから組み立てて、許可IP以外へ503を返す。
func Maintenance(cfg config.Config) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(cfg.MaintenanceAllowIPs))
	for _, ip := range cfg.MaintenanceAllowIPs {
		allowed[ip] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.MaintenanceMode {
				return next(c)
			}
			if _, ok := allowed[c.RealIP()]; ok {
				return next(c)
			}
			return c.JSON(http.StatusServiceUnavailable, errorJSON("maintenance"))
		}
	}
}
