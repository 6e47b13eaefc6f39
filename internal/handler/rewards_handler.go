package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/service"
)

type RewardsHandler struct{}

func NewRewardsHandler() *RewardsHandler {
	return &RewardsHandler{}
}

func (h *RewardsHandler) CheckIn(c echo.Context) error {
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.Rewards.CheckIn(ctx)
	})
}

func (h *RewardsHandler) Tap(c echo.Context) error {
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.Rewards.Tap(ctx)
	})
}

func (h *RewardsHandler) Items(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": model.PointCatalog(),
	})
}

func (h *RewardsHandler) Redeem(c echo.Context) error {
	id := c.Param("id")
	if _, ok := model.FindPointItem(id); !ok {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
	}
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.Rewards.Redeem(ctx, id)
	})
}
