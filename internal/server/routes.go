package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/metrics"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes は全ルートを登録する。
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	invH *handler.InventoryHandler,
	txH *handler.TransactionHandler,
) {
	authH.RegisterRoutes(e)
	invH.RegisterRoutes(e, cfg)
	txH.RegisterRoutes(e, cfg)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
