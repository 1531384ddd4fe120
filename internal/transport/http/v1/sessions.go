package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/quantumqa/internal/transport/http/auth"
)

// ListSessions lists the caller's sessions.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	sessions, err := h.service.Sessions(c.Request().Context(), auth.UserID(c), queryInt(c, "limit", 0))
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// CreateSession starts an empty session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	sessionID, err := h.service.NewSession(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"session_id": sessionID})
}

// GetSessionMessages retrieves messages for a session, oldest first.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := queryInt(c, "limit", -1)

	messages, err := h.service.History(c.Request().Context(), sessionID, auth.UserID(c), limit)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   messages,
	})
}

// DeleteSession removes a session and its messages.
// DELETE /v1/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.service.DeleteSession(c.Request().Context(), c.Param("session_id"), auth.UserID(c)); err != nil {
		return h.errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
