package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Apply(ctx context.Context, reason Reason, delta float64, _ ...func(u *model.User)) (model.User, error) {
	args := m.Called(ctx, reason, delta)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockLedger) CanAfford(cost float64) bool {
	return m.Called(cost).Bool(0)
}

func (m *mockLedger) Balance() float64 {
	return m.Called().Get(0).(float64)
}

type failingKV struct {
	repository.KVRepository
	err error
}

func (f failingKV) Set(context.Context, string, string, string) error {
	return f.err
}

// flakyKV fails every Set after the first ok calls.
type flakyKV struct {
	repository.KVRepository
	ok   int
	sets int
	err  error
}

func (f *flakyKV) Set(ctx context.Context, ns, key, value string) error {
	f.sets++
	if f.sets > f.ok {
		return f.err
	}
	return f.KVRepository.Set(ctx, ns, key, value)
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%07d", n)
	}
}

func loggedInUsers(name string, points float64) (*UserStore, repository.KVRepository) {
	kv := repository.NewMemoryKVRepository()
	users := NewUserStore(kv, "s1")
	_, _ = users.Login(context.Background(), name)
	if points != model.InitialPoints {
		_, _ = users.Update(context.Background(), func(u *model.User) { u.Points = points })
	}
	return users, kv
}
