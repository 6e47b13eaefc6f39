package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/repository"
)

// UserStore holds the session user and writes it back to the KV store on
// every change. Callers serialize access through the owning Session.
type UserStore struct {
	kv   repository.KVRepository
	ns   string
	user model.User
}

func NewUserStore(kv repository.KVRepository, namespace string) *UserStore {
	return &UserStore{kv: kv, ns: namespace, user: model.DefaultUser()}
}

// Load restores the persisted user. A missing or unreadable blob leaves the
// default user in place.
func (s *UserStore) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.ns, model.UserKey)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !ok {
		s.user = model.DefaultUser()
		return nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.user = model.DefaultUser()
		return nil
	}
	s.user = u
	return nil
}

func (s *UserStore) User() model.User {
	return s.user
}

// Login overwrites any previous user: points go back to the initial grant.
func (s *UserStore) Login(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = model.GuestName
	}
	u := model.User{
		Username:   username,
		Points:     model.InitialPoints,
		IsLoggedIn: true,
	}
	if err := s.save(ctx, u); err != nil {
		return s.user, err
	}
	return u, nil
}

// Update applies fn to a copy of the user and persists the result. The
// in-memory user only changes once the write succeeded.
func (s *UserStore) Update(ctx context.Context, fn func(u *model.User)) (model.User, error) {
	next := s.user
	fn(&next)
	if err := s.save(ctx, next); err != nil {
		return s.user, err
	}
	return next, nil
}

func (s *UserStore) save(ctx context.Context, u model.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, s.ns, model.UserKey, string(b)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.user = u
	return nil
}
