package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/transport/http/auth"
)

const chatFailureMessage = "An error occurred while processing your query."

// Chat runs the question pipeline.
// POST /v1/quantum/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ChatFailure{Error: "invalid request body"})
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = strings.TrimSpace(req.Query)
	}
	if question == "" {
		return c.JSON(http.StatusBadRequest, domain.ChatFailure{Error: "query is required"})
	}

	resp, err := h.service.ProcessQuery(c.Request().Context(), auth.UserID(c), domain.QueryRequest{
		Question:      question,
		SessionID:     req.SessionID,
		MaxPapers:     req.MaxPapers,
		MaxWebResults: req.MaxWebResults,
	})
	if err != nil {
		status := apperr.HTTPStatus(err)
		msg := apperr.PublicMessage(err)
		if status >= http.StatusInternalServerError {
			h.log.WithError(err).Error("chat pipeline failed")
			msg = chatFailureMessage
		}
		return c.JSON(status, domain.ChatFailure{Error: msg, Question: question})
	}
	return c.JSON(http.StatusOK, resp)
}

// Validate classifies a query without answering it.
// POST /v1/quantum/validate
func (h *Handler) Validate(c echo.Context) error {
	var req domain.ValidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	return c.JSON(http.StatusOK, h.service.Validate(req.Query))
}
