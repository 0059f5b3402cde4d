package handler

import (
	"net/http"
	"strconv"

	"rpos/internal/config"
	"rpos/internal/middleware"
	"rpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type BillHandler struct {
	bills      *usecase.BillUsecase
	settlement *usecase.SettlementUsecase
}

func NewBillHandler(bills *usecase.BillUsecase, settlement *usecase.SettlementUsecase) *BillHandler {
	return &BillHandler{bills: bills, settlement: settlement}
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *BillHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/staff")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/tables/:id/bill", h.tableBill)
	g.POST("/tables/:id/checkout", h.checkout)
}

func (h *BillHandler) tableBill(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.bills.TableBill(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BillHandler) checkout(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.settlement.CloseBill(c.Request().Context(), ownerID, id, usecase.CloseBillInput{
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
