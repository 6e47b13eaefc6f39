package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckInOncePerDay(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)}
	users, _ := loggedInUsers("alice", 100)
	r := NewRewards(users, NewRewardLedger(users), clock.Now)

	out, err := r.CheckIn(ctx)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, NoticeCheckedIn, out.Notice)
	assert.Equal(t, float64(150), out.User.Points)
	assert.Equal(t, "Sun Mar 08 2026", out.User.LastCheckIn)

	clock.Advance(10 * time.Hour)
	out, err = r.CheckIn(ctx)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, NoticeAlreadyCheckedIn, out.Notice)
	assert.Equal(t, float64(150), users.User().Points)
	assert.True(t, r.CheckedInToday())

	clock.Advance(24 * time.Hour)
	assert.False(t, r.CheckedInToday())
	out, err = r.CheckIn(ctx)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, float64(200), out.User.Points)
}

func TestTapAddsHalfPoint(t *testing.T) {
	ctx := context.Background()
	users, _ := loggedInUsers("alice", 100)
	r := NewRewards(users, NewRewardLedger(users), nil)

	for i := 0; i < 3; i++ {
		_, err := r.Tap(ctx)
		require.NoError(t, err)
	}
	assert.InDelta(t, 101.5, users.User().Points, 1e-9)
}

func TestRedeem(t *testing.T) {
	tests := []struct {
		name        string
		points      float64
		itemID      string
		wantApplied bool
		wantPoints  float64
		wantNotice  string
	}{
		{"affordable", 350, "4", true, 50, "成功兑换 下午茶精致套餐！🥂"},
		{"exact balance", 200, "5", true, 0, "成功兑换 通勤打车红包！🥂"},
		{"unaffordable", 100, "1", false, 100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _ := loggedInUsers("alice", tt.points)
			r := NewRewards(users, NewRewardLedger(users), nil)

			out, err := r.Redeem(context.Background(), tt.itemID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, out.Applied)
			assert.Equal(t, tt.wantNotice, out.Notice)
			assert.Equal(t, tt.wantPoints, users.User().Points)
		})
	}
}

func TestRedeemUnknownItem(t *testing.T) {
	users, _ := loggedInUsers("alice", 5000)
	r := NewRewards(users, NewRewardLedger(users), nil)
	_, err := r.Redeem(context.Background(), "99")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestRedeemNeverAppliesWhenUnaffordable(t *testing.T) {
	users, _ := loggedInUsers("alice", 100)
	ledger := &mockLedger{}
	ledger.On("CanAfford", float64(1000)).Return(false)
	r := NewRewards(users, ledger, nil)

	out, err := r.Redeem(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, out.Applied)
	ledger.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedeemDebitsThroughLedger(t *testing.T) {
	users, _ := loggedInUsers("alice", 1000)
	ledger := &mockLedger{}
	ledger.On("CanAfford", float64(800)).Return(true)
	ledger.On("Apply", mock.Anything, ReasonRedeem, float64(-800)).Return(model.User{Username: "alice", Points: 200}, nil)
	r := NewRewards(users, ledger, nil)

	out, err := r.Redeem(context.Background(), "3")
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, float64(200), out.User.Points)
	ledger.AssertExpectations(t)
}

func TestCheckInFailedWriteCanBeRetried(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)}
	users, kv := loggedInUsers("alice", 100)
	boom := errors.New("boom")
	users.kv = &flakyKV{KVRepository: kv, err: boom}
	r := NewRewards(users, NewRewardLedger(users), clock.Now)

	_, err := r.CheckIn(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, float64(100), users.User().Points)
	assert.Empty(t, users.User().LastCheckIn)

	users.kv = kv
	out, err := r.CheckIn(ctx)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, float64(150), out.User.Points)

	out, err = r.CheckIn(ctx)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, float64(150), users.User().Points)
}

func TestCheckInWritesPointsAndDayTogether(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)}
	users, kv := loggedInUsers("alice", 100)
	flaky := &flakyKV{KVRepository: kv, ok: 1, err: errors.New("boom")}
	users.kv = flaky
	r := NewRewards(users, NewRewardLedger(users), clock.Now)

	_, err := r.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, flaky.sets, "one write for the bonus and the day")

	out, err := r.CheckIn(ctx)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, float64(150), users.User().Points)
}
