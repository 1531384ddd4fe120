package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/transport/http/auth"
)

// Summarize condenses a paper text.
// POST /v1/summarize
func (h *Handler) Summarize(c echo.Context) error {
	var req domain.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	summary, err := h.service.Summarize(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"summary":  summary.Text,
		"model":    summary.Model,
		"paper_id": req.PaperID,
		"message":  "Summary generated successfully",
	})
}

// Analyze produces a focused analysis of a paper text.
// POST /v1/analyze
func (h *Handler) Analyze(c echo.Context) error {
	var req domain.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	analysis, err := h.service.Analyze(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"analysis": analysis,
		"type":     analysis.Type,
	})
}
