package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/transport/http/auth"
)

// Search runs a plain arXiv search.
// POST /v1/search
func (h *Handler) Search(c echo.Context) error {
	var req domain.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	papers, err := h.service.SearchPapers(c.Request().Context(), auth.UserID(c), req.Query, req.MaxResults)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":  req.Query,
		"papers": papers,
		"count":  len(papers),
	})
}

// ListPapers returns the caller's saved papers.
// GET /v1/papers
func (h *Handler) ListPapers(c echo.Context) error {
	papers, err := h.service.ListPapers(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"papers": papers,
	})
}

// SavePaper bookmarks a paper.
// POST /v1/papers
func (h *Handler) SavePaper(c echo.Context) error {
	var req domain.SavePaperRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	paper, err := h.service.SavePaper(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, paper)
}

// DeletePaper removes a saved paper.
// DELETE /v1/papers/:id
func (h *Handler) DeletePaper(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid paper id"})
	}
	if err := h.service.DeletePaper(c.Request().Context(), auth.UserID(c), id); err != nil {
		return h.errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// QueryHistory returns the caller's recent searches.
// GET /v1/history
func (h *Handler) QueryHistory(c echo.Context) error {
	queries, err := h.service.QueryHistory(c.Request().Context(), auth.UserID(c), queryInt(c, "limit", 0))
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"history": queries,
	})
}
