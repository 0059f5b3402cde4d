package handler

import (
	"net/http"
	"strconv"

	"rpos/internal/config"
	"rpos/internal/middleware"
	"rpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//客側の公開メニュー
	e.GET("/dining/:slug/:table_token/menu", h.diningMenu)

	g := e.Group("/staff")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/restaurant", h.createRestaurant)
	g.GET("/restaurant", h.myRestaurant)
	g.PUT("/restaurant", h.updateRestaurant)

	g.POST("/tables", h.createTable)
	g.GET("/tables", h.listTables)
	g.DELETE("/tables/:id", h.deleteTable)
	g.GET("/tables/:id/qr", h.tableQR)

	g.POST("/categories", h.createCategory)
	g.GET("/categories", h.listCategories)
	g.DELETE("/categories/:id", h.deleteCategory)

	g.POST("/menu-items", h.createMenuItem)
	g.GET("/menu-items", h.listMenuItems)
	g.PUT("/menu-items/:id", h.updateMenuItem)
	g.DELETE("/menu-items/:id", h.deleteMenuItem)
}

func (h *CatalogHandler) diningMenu(c echo.Context) error {
	out, err := h.uc.DiningMenu(c.Request().Context(), c.Param("slug"), c.Param("table_token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) createRestaurant(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.RestaurantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateRestaurant(c.Request().Context(), ownerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CatalogHandler) myRestaurant(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MyRestaurant(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) updateRestaurant(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.RestaurantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateRestaurant(c.Request().Context(), ownerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) createTable(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CreateTableInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateTable(c.Request().Context(), ownerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CatalogHandler) listTables(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListTables(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) deleteTable(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteTable(c.Request().Context(), ownerID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "table deleted"})
}

// QRコードPNGをそのまま返す（印刷用）
func (h *CatalogHandler) tableQR(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	png, err := h.uc.TableQR(c.Request().Context(), ownerID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *CatalogHandler) createCategory(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CategoryInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateCategory(c.Request().Context(), ownerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CatalogHandler) listCategories(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListCategories(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) deleteCategory(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteCategory(c.Request().Context(), ownerID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "category deleted"})
}

func (h *CatalogHandler) createMenuItem(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.MenuItemInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateMenuItem(c.Request().Context(), ownerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CatalogHandler) listMenuItems(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMenuItems(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) updateMenuItem(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.MenuItemInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateMenuItem(c.Request().Context(), ownerID, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) deleteMenuItem(c echo.Context) error {
	ownerID, ok := getOwnerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteMenuItem(c.Request().Context(), ownerID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "menu item deleted"})
}
