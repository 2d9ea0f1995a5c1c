package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
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

// /inventory のHTTP
type InventoryHandler struct {
	uc *usecase.InventoryUsecase
}

// DI
func NewInventoryHandler(uc *usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

type SearchRequest struct {
	Query string `json:"query"`
}

func (h *InventoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/inventory")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/search", h.search)
}

// barcode完全一致は単一オブジェクト、名前検索は配列で返す。
// 端末側はどちらの形も受けられる。
func (h *InventoryHandler) search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Search(c.Request().Context(), usecase.SearchInput{Query: req.Query})
	if err != nil {
		return writeError(c, err)
	}

	if out.Exact {
		return c.JSON(http.StatusOK, out.Items[0])
	}
	return c.JSON(http.StatusOK, out.Items)
}
