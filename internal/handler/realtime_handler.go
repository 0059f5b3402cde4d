package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"rpos/internal/config"
	"rpos/internal/middleware"
	"rpos/internal/realtime"
	repo "rpos/internal/repository"

	"github.com/labstack/echo/v4"
)

type RealtimeHandler struct {
	hub         *realtime.Hub
	pub         realtime.Publisher
	restaurants repo.RestaurantRepository
}

func NewRealtimeHandler(hub *realtime.Hub, pub realtime.Publisher, restaurants repo.RestaurantRepository) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, pub: pub, restaurants: restaurants}
}

type CommandRequest struct {
	Command string                 `json:"command"`
	Items   []realtime.PaymentLine `json:"items"`
	Total   string                 `json:"total"`
}

func (h *RealtimeHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//購読は客側ディスプレイも使うので公開。店舗IDしか流れない。
	e.GET("/realtime/:restaurant_id/stream", h.stream)

	g := e.Group("/realtime")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("/commands", h.command)
}

// streamはSSEでイベントを垂れ流す。再送はしない：
// 切断中のイベントは失われる前提で、クライアント側は再接続時に
// ダッシュボードを引き直す。
func (h *RealtimeHandler) stream(c echo.Context) error {
	restaurantID, err := strconv.ParseInt(c.Param("restaurant_id"), 10, 64)
	if err != nil || restaurantID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ch := h.hub.Join(restaurantID)
	defer h.hub.Leave(restaurantID, ch)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

// commandはキャッシャー画面からの再配布。支払い額の表示／消去と
// テーブル一覧の更新だけを受け付ける。
func (h *RealtimeHandler) command(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	restaurant, err := h.restaurants.FindByOwnerID(c.Request().Context(), ownerID)
	if err == repo.ErrNotFound {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "restaurant not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var ev realtime.Event
	switch req.Command {
	case realtime.CommandShowCustomerPayment:
		ev = realtime.ShowCustomerPayment(req.Items, req.Total)
	case realtime.CommandHideCustomerPayment:
		ev = realtime.HideCustomerPayment()
	case realtime.CommandRefreshTables:
		ev = realtime.RefreshTables()
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown command"})
	}

	if err := h.pub.Publish(c.Request().Context(), restaurant.ID, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "sent"})
}
