// Package v1 provides the versioned HTTP handlers.
package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	log     logrus.FieldLogger
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, log logrus.FieldLogger) *Handler {
	return &Handler{
		service: service,
		log:     log.WithField("component", "http"),
	}
}

// RegisterRoutes registers routes with the echo server. authn guards /v1.
func (h *Handler) RegisterRoutes(e *echo.Echo, authn echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	g := e.Group("/v1", authn)

	// Question pipeline
	g.POST("/quantum/chat", h.Chat)
	g.POST("/quantum/validate", h.Validate)

	// Sessions
	g.GET("/sessions", h.ListSessions)
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:session_id/messages", h.GetSessionMessages)
	g.DELETE("/sessions/:session_id", h.DeleteSession)

	// Papers and history
	g.POST("/search", h.Search)
	g.GET("/papers", h.ListPapers)
	g.POST("/papers", h.SavePaper)
	g.DELETE("/papers/:id", h.DeletePaper)
	g.GET("/history", h.QueryHistory)

	// Paper text tools
	g.POST("/summarize", h.Summarize)
	g.POST("/analyze", h.Analyze)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorJSON renders err without leaking internal details.
func (h *Handler) errorJSON(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.JSON(status, map[string]string{"error": apperr.PublicMessage(err)})
}

// queryInt reads an integer query parameter, returning def when absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
