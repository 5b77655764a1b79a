package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spacehub/spacehub-backend/internal/ai"
)

type AIHandler struct {
	intake *ai.IntakeClient
}

func NewAIHandler(intake *ai.IntakeClient) *AIHandler {
	return &AIHandler{intake: intake}
}

// ParseQuery turns a guest's free-text query into structured intake fields
// suitable for pre-filling a space request form.
func (h *AIHandler) ParseQuery(c echo.Context) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	query := strings.TrimSpace(body.Query)
	if query == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "query is required"))
	}
	fields, err := h.intake.Parse(c.Request().Context(), query)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("upstream_error", "failed to parse query"))
	}
	return c.JSON(http.StatusOK, fields)
}
