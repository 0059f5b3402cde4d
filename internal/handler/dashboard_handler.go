package handler

import (
	"net/http"

	"rpos/internal/config"
	"rpos/internal/middleware"
	"rpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	uc *usecase.DashboardUsecase
}

func NewDashboardHandler(uc *usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/staff/dashboard")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/kitchen", h.kitchen)
	g.GET("/cashier", h.cashier)
	g.GET("/sales", h.sales)
}

func (h *DashboardHandler) kitchen(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Kitchen(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) cashier(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Cashier(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) sales(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.SalesReport(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
