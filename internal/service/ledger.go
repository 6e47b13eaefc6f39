package service

import (
	"context"

	"github.com/shinyyama/herspace-backend/internal/metrics"
	"github.com/shinyyama/herspace-backend/internal/model"
)

// Reason labels a ledger mutation in metrics.
type Reason string

const (
	ReasonCheckIn Reason = "checkin"
	ReasonTap     Reason = "tap"
	ReasonPost    Reason = "post"
	ReasonReact   Reason = "react"
	ReasonComment Reason = "comment"
	ReasonTip     Reason = "tip"
	ReasonRedeem  Reason = "redeem"
)

const (
	CheckInReward = 50
	TapReward     = 0.5
	PostReward    = 10
	ReactReward   = 1
	CommentReward = 2
	TipCost       = 10
)

// RewardLedger is the only writer of the points balance. It never refuses a
// delta; callers check CanAfford before debiting. Extra mutations passed to
// Apply are persisted in the same write as the delta.
type RewardLedger interface {
	Apply(ctx context.Context, reason Reason, delta float64, also ...func(u *model.User)) (model.User, error)
	CanAfford(cost float64) bool
	Balance() float64
}

type userLedger struct {
	users *UserStore
}

func NewRewardLedger(users *UserStore) RewardLedger {
	return &userLedger{users: users}
}

func (l *userLedger) Apply(ctx context.Context, reason Reason, delta float64, also ...func(u *model.User)) (model.User, error) {
	u, err := l.users.Update(ctx, func(u *model.User) {
		u.Points += delta
		for _, fn := range also {
			fn(u)
		}
	})
	if err != nil {
		return u, err
	}
	metrics.PointsApplied.WithLabelValues(string(reason)).Inc()
	return u, nil
}

func (l *userLedger) CanAfford(cost float64) bool {
	return l.users.User().Points >= cost
}

func (l *userLedger) Balance() float64 {
	return l.users.User().Points
}
