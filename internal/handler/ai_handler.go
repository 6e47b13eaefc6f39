package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/ai"
)

// ContentGateway is implemented by *ai.Gateway. It never fails; errors are
// already replaced by fallback text.
type ContentGateway interface {
	Rewrite(ctx context.Context, complaint string) string
	FirstAid(ctx context.Context, situation string) string
	DailyAffirmation(ctx context.Context) ai.Affirmation
	Avatar(ctx context.Context, jobTitle, mood string) *string
}

type AIHandler struct {
	gw ContentGateway
}

func NewAIHandler(gw ContentGateway) *AIHandler {
	return &AIHandler{gw: gw}
}

type rewriteRequest struct {
	Complaint string `json:"complaint"`
}

func (h *AIHandler) Rewrite(c echo.Context) error {
	var req rewriteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if strings.TrimSpace(req.Complaint) == "" {
		return badRequest(c, "complaint is required")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"text": h.gw.Rewrite(c.Request().Context(), req.Complaint),
	})
}

type firstAidRequest struct {
	Situation string `json:"situation"`
}

func (h *AIHandler) FirstAid(c echo.Context) error {
	var req firstAidRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if strings.TrimSpace(req.Situation) == "" {
		return badRequest(c, "situation is required")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"text": h.gw.FirstAid(c.Request().Context(), req.Situation),
	})
}

func (h *AIHandler) Affirmation(c echo.Context) error {
	return c.JSON(http.StatusOK, h.gw.DailyAffirmation(c.Request().Context()))
}

type avatarRequest struct {
	JobTitle string `json:"jobTitle"`
	Mood     string `json:"mood"`
}

// Avatar only generates; storing it on the profile is
// POST /api/profile/avatar/generate.
func (h *AIHandler) Avatar(c echo.Context) error {
	var req avatarRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	url := h.gw.Avatar(c.Request().Context(), req.JobTitle, req.Mood)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"url": url,
	})
}
