package server

import (
	"log/slog"

	"rpos/internal/config"
	"rpos/internal/handler"
	"rpos/internal/logging"
	"rpos/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Order     *handler.OrderHandler
	Bill      *handler.BillHandler
	Dashboard *handler.DashboardHandler
	Realtime  *handler.RealtimeHandler
}

// Newはechoを組み立てて全ルートを登録する。起動はしない。
func New(cfg config.Config, log *slog.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Maintenance(cfg))

	h.Auth.RegisterRoutes(e, cfg)
	h.Catalog.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Bill.RegisterRoutes(e, cfg)
	h.Dashboard.RegisterRoutes(e, cfg)
	h.Realtime.RegisterRoutes(e, cfg)

	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
