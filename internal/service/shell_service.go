package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/repository"
)

type ShellState struct {
	ActiveTab    model.Tab       `json:"activeTab"`
	ShowTutorial bool            `json:"showTutorial"`
	Tutorial     *model.Tutorial `json:"tutorial,omitempty"`
	SeenTabs     []model.Tab     `json:"seenTabs"`
}

// Shell tracks the active tab and which onboarding overlays were dismissed.
// The active tab lives in memory; the seen set is persisted.
type Shell struct {
	kv     repository.KVRepository
	ns     string
	users  *UserStore
	active model.Tab
}

func NewShell(kv repository.KVRepository, namespace string, users *UserStore) *Shell {
	return &Shell{kv: kv, ns: namespace, users: users, active: model.TabHome}
}

func (s *Shell) ActiveTab() model.Tab {
	return s.active
}

func (s *Shell) SetTab(tab model.Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	s.active = tab
	return nil
}

func (s *Shell) Reset() {
	s.active = model.TabHome
}

func (s *Shell) State(ctx context.Context) (ShellState, error) {
	seen, err := s.seen(ctx)
	if err != nil {
		return ShellState{}, err
	}
	st := ShellState{ActiveTab: s.active, SeenTabs: seen}
	tut, ok := model.TutorialFor(s.active)
	if ok && s.users.User().IsLoggedIn && !containsTab(seen, s.active) {
		st.ShowTutorial = true
		st.Tutorial = &tut
	}
	return st, nil
}

// CompleteTutorial marks the active tab as seen.
func (s *Shell) CompleteTutorial(ctx context.Context) (ShellState, error) {
	seen, err := s.seen(ctx)
	if err != nil {
		return ShellState{}, err
	}
	if !containsTab(seen, s.active) {
		seen = append(seen, s.active)
		b, err := json.Marshal(seen)
		if err != nil {
			return ShellState{}, err
		}
		if err := s.kv.Set(ctx, s.ns, model.SeenTutorialsKey, string(b)); err != nil {
			return ShellState{}, fmt.Errorf("save seen tutorials: %w", err)
		}
	}
	return s.State(ctx)
}

func (s *Shell) seen(ctx context.Context) ([]model.Tab, error) {
	raw, ok, err := s.kv.Get(ctx, s.ns, model.SeenTutorialsKey)
	if err != nil {
		return nil, fmt.Errorf("load seen tutorials: %w", err)
	}
	seen := []model.Tab{}
	if !ok {
		return seen, nil
	}
	if err := json.Unmarshal([]byte(raw), &seen); err != nil {
		return []model.Tab{}, nil
	}
	return seen, nil
}

func containsTab(tabs []model.Tab, t model.Tab) bool {
	for _, x := range tabs {
		if x == t {
			return true
		}
	}
	return false
}
