package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /transactions のHTTP
type TransactionHandler struct {
	uc *usecase.TransactionUsecase
}

// DI
func NewTransactionHandler(uc *usecase.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

type TransactionItemRequest struct {
	ItemName string  `json:"item_name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

type CreateTransactionRequest struct {
	Items []TransactionItemRequest `json:"items"`
	Total float64                  `json:"total"`
}

func (h *TransactionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/transactions")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
}

func (h *TransactionHandler) create(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CreateTransactionInput{Total: req.Total}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.TransactionItemInput{
			ItemName: it.ItemName,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	out, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *TransactionHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
