package server

import (
	"app/internal/metrics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はechoインスタンスを組み立てて返す。起動はStartで行う。
func New(m *metrics.ServerMetrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	if m != nil {
		e.Use(metrics.Middleware(m))
	}

	return e
}

// Start はHTTPサーバーを起動する。
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
