package service

import (
	"context"
	"testing"
	"time"

	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPreferenceDefaults(t *testing.T) {
	users, kv := loggedInUsers("alice", 100)
	p, err := NewPreferenceService(kv, "s1", users).Profile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "HerSpace 密友", p.Nickname)
	assert.Equal(t, "👑", p.Avatar)
	assert.Equal(t, "全能打工人", p.JobTitle)
	assert.Equal(t, "平静 🕊️", p.Mood)
	assert.Equal(t, "我足够好，无需证明。", p.Motto)
	assert.False(t, p.WechatBound)
	assert.False(t, p.AppleBound)
}

func TestPreferenceUpdateOnlyTouchesGivenFields(t *testing.T) {
	ctx := context.Background()
	users, kv := loggedInUsers("alice", 100)
	s := NewPreferenceService(kv, "s1", users)

	p, err := s.Update(ctx, model.ProfileUpdate{JobTitle: strPtr("产品经理"), Phone: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "产品经理", p.JobTitle)
	assert.Equal(t, "地球某个角落", p.Address)

	v, ok, err := kv.Get(ctx, "s1", model.PrefJob)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "产品经理", v)

	_, ok, _ = kv.Get(ctx, "s1", model.PrefAddress)
	assert.False(t, ok)
}

func TestPreferenceBindIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users, kv := loggedInUsers("alice", 100)
	s := NewPreferenceService(kv, "s1", users)

	for i := 0; i < 2; i++ {
		p, err := s.BindWechat(ctx)
		require.NoError(t, err)
		assert.True(t, p.WechatBound)
		assert.False(t, p.AppleBound)
	}
	p, err := s.BindApple(ctx)
	require.NoError(t, err)
	assert.True(t, p.AppleBound)
}

func TestGreetingName(t *testing.T) {
	ctx := context.Background()

	users, kv := loggedInUsers("alice", 100)
	s := NewPreferenceService(kv, "s1", users)
	name, err := s.GreetingName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = s.Update(ctx, model.ProfileUpdate{Nickname: strPtr("小A")})
	require.NoError(t, err)
	name, err = s.GreetingName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "小A", name)

	fresh := NewUserStore(kv, "other")
	name, err = NewPreferenceService(kv, "other", fresh).GreetingName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "访客", name)
}

func TestIsBirthday(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want bool
	}{
		{"1995-10-18", true},
		{"1995-10-19", false},
		{"2000-04-18", false},
		{"", false},
		{"18/10/1995", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, isBirthday(tt.raw, now))
		})
	}
}

func TestBirthdayToday(t *testing.T) {
	ctx := context.Background()
	users, kv := loggedInUsers("alice", 100)
	s := NewPreferenceService(kv, "s1", users)
	_, err := s.Update(ctx, model.ProfileUpdate{Birthday: strPtr("1990-02-14")})
	require.NoError(t, err)

	ok, err := s.BirthdayToday(ctx, time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, ok)
}
