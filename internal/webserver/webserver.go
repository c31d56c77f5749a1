// Package webserver bootstraps the echo HTTP server: recovery, body
// limits, zap request logging and optional static file hosting.
package webserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/talkincode/stockpile/config"
	"go.uber.org/zap"
)

type WebServer struct {
	root      *echo.Echo
	appConfig *config.AppConfig
}

func NewWebServer(appConfig *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))
	e.Use(zapLoggerMiddleware())

	if appConfig.Web.StaticDir != "" {
		e.Static("/", appConfig.Web.StaticDir)
	}

	return &WebServer{root: e, appConfig: appConfig}
}

// Echo exposes the router for handler registration.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.appConfig.Web.Host, s.appConfig.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return s.root.Start(addr)
}

func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

func zapLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()))
			return err
		}
	}
}
