package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shinyyama/herspace-backend/internal/model"
)

const (
	NoticeCheckedIn        = "能量注入！获得 50 pts ✨"
	NoticeAlreadyCheckedIn = "今天已经签过到了，休息片刻吧。☕️"
	NoticeInsufficient     = "积分能量不足，快去签到或碎纸吧 ☕️"
)

// checkInLayout matches the day strings the web client stored.
const checkInLayout = "Mon Jan 02 2006"

// Outcome is the result of a user action. Applied=false means a
// precondition failed and nothing changed.
type Outcome struct {
	Applied bool               `json:"applied"`
	Notice  string             `json:"notice,omitempty"`
	User    model.User         `json:"user"`
	Post    *model.Achievement `json:"post,omitempty"`
	Comment *model.TreeComment `json:"comment,omitempty"`
}

type Rewards struct {
	users  *UserStore
	ledger RewardLedger
	now    func() time.Time
}

func NewRewards(users *UserStore, ledger RewardLedger, now func() time.Time) *Rewards {
	if now == nil {
		now = time.Now
	}
	return &Rewards{users: users, ledger: ledger, now: now}
}

// CheckIn grants the daily bonus at most once per local calendar day.
func (r *Rewards) CheckIn(ctx context.Context) (Outcome, error) {
	today := r.now().Format(checkInLayout)
	if r.users.User().LastCheckIn == today {
		return Outcome{Notice: NoticeAlreadyCheckedIn, User: r.users.User()}, nil
	}
	u, err := r.ledger.Apply(ctx, ReasonCheckIn, CheckInReward, func(u *model.User) {
		u.LastCheckIn = today
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Applied: true, Notice: NoticeCheckedIn, User: u}, nil
}

func (r *Rewards) CheckedInToday() bool {
	return r.users.User().LastCheckIn == r.now().Format(checkInLayout)
}

// Tap has no cooldown.
func (r *Rewards) Tap(ctx context.Context) (Outcome, error) {
	u, err := r.ledger.Apply(ctx, ReasonTap, TapReward)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Applied: true, User: u}, nil
}

// Redeem debits the item cost. An unaffordable item is a silent no-op.
func (r *Rewards) Redeem(ctx context.Context, itemID string) (Outcome, error) {
	item, ok := model.FindPointItem(itemID)
	if !ok {
		return Outcome{}, ErrUnknownItem
	}
	if !r.ledger.CanAfford(item.Cost) {
		return Outcome{User: r.users.User()}, nil
	}
	u, err := r.ledger.Apply(ctx, ReasonRedeem, -item.Cost)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Applied: true, Notice: fmt.Sprintf("成功兑换 %s！🥂", item.Name), User: u}, nil
}
