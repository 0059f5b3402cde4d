package handler

import (
	"net/http"
	"strconv"

	"rpos/internal/config"
	"rpos/internal/middleware"
	"rpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type DiningOrderRequest struct {
	SessionToken string             `json:"session_token"`
	Cart         []usecase.CartLine `json:"cart"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//客側（QRのトークンで認可する）
	e.POST("/dining/t/:table_token/orders", h.create)
	e.GET("/dining/t/:table_token/history", h.history)

	//スタッフ側
	g := e.Group("/staff")
	g.Use(middleware.AuthJWT(cfg))
	g.PATCH("/orders/:id/status", h.updateStatus)
	g.DELETE("/order-items/:id", h.deleteItem)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req DiningOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		TableToken:   c.Param("table_token"),
		SessionToken: req.SessionToken,
		Cart:         req.Cart,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) history(c echo.Context) error {
	out, err := h.uc.TableHistory(c.Request().Context(), c.Param("table_token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), ownerID, id, usecase.UpdateOrderStatusInput{Status: req.Status}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}

func (h *OrderHandler) deleteItem(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteItem(c.Request().Context(), ownerID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "item deleted"})
}
