// Package http provides the HTTP server for the research assistant API.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/service"
	"github.com/xiaot623/gogo/quantumqa/internal/transport/http/auth"
	v1 "github.com/xiaot623/gogo/quantumqa/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server. Every /v1 route requires
// a bearer token signed with jwtSecret.
func NewServer(svc *service.Service, jwtSecret string, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, log)

	// Register Routes
	v1Handler.RegisterRoutes(e, auth.Middleware(jwtSecret))

	return e
}
