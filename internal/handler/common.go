package handler

import (
	"net/http"

	"rpos/internal/middleware"
	"rpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// middleware.AuthJWT が c.Set("owner_id", int64) した値を取り出す
func getOwnerIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxOwnerIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}
	return id, true
}
