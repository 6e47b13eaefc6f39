package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shinyyama/herspace-backend/internal/media"
	"github.com/shinyyama/herspace-backend/internal/metrics"
	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/repository"
	"go.uber.org/zap"
)

// Session is the server-side counterpart of one browser tab. All of its
// stores are mutated only inside Do.
type Session struct {
	ID string

	lastSeen atomic.Int64 // unix nanos of the last lookup
	mu       sync.Mutex
	Users    *UserStore
	Ledger   RewardLedger
	Rewards  *Rewards
	Feed     *Feed
	Draft    *Draft
	TreeHole *TreeHole
	Prefs    *PreferenceService
	Shell    *Shell
}

// Do runs fn with the session locked so mutations never interleave.
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// GenerateAvatar asks gen for a picture without holding the session lock and
// stores it only when one came back.
func (s *Session) GenerateAvatar(ctx context.Context, gen AvatarGenerator) (model.Profile, bool, error) {
	var job, mental string
	if err := s.Do(func() error {
		var err error
		job, mental, err = s.Prefs.AvatarInput(ctx)
		return err
	}); err != nil {
		return model.Profile{}, false, err
	}

	url := gen.Avatar(ctx, job, mental)

	var p model.Profile
	err := s.Do(func() error {
		var err error
		if url == nil {
			p, err = s.Prefs.Profile(ctx)
			return err
		}
		p, err = s.Prefs.SetAvatar(ctx, *url)
		return err
	})
	return p, url != nil, err
}

type RegistryOption func(*SessionRegistry)

func WithClock(now func() time.Time) RegistryOption {
	return func(r *SessionRegistry) { r.now = now }
}

func WithIDGenerator(newID func() string) RegistryOption {
	return func(r *SessionRegistry) { r.newID = newID }
}

func WithMediaStore(store media.Store) RegistryOption {
	return func(r *SessionRegistry) { r.media = store }
}

func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *SessionRegistry) { r.log = log }
}

type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	kv    repository.KVRepository
	media media.Store
	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

func NewSessionRegistry(kv repository.KVRepository, opts ...RegistryOption) *SessionRegistry {
	r := &SessionRegistry{
		sessions: make(map[string]*Session),
		kv:       kv,
		media:    media.InlineStore{},
		now:      time.Now,
		newID:    NewID,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SessionRegistry) build(id string) *Session {
	users := NewUserStore(r.kv, id)
	ledger := NewRewardLedger(users)
	feed := NewFeed(r.now, r.newID)
	draft := &Draft{}
	return &Session{
		ID:       id,
		Users:    users,
		Ledger:   ledger,
		Rewards:  NewRewards(users, ledger, r.now),
		Feed:     feed,
		Draft:    draft,
		TreeHole: NewTreeHole(id, feed, draft, users, ledger, r.media),
		Prefs:    NewPreferenceService(r.kv, id, users),
		Shell:    NewShell(r.kv, id, users),
	}
}

// Login starts a fresh user in the given session, creating the session when
// id is blank or unknown. The feed, draft and active tab start over.
func (r *SessionRegistry) Login(ctx context.Context, id, username string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	sess, ok := r.sessions[id]
	if !ok {
		sess = r.build(id)
		r.sessions[id] = sess
		metrics.SessionsActive.Inc()
	}
	r.touch(sess)
	r.mu.Unlock()

	err := sess.Do(func() error {
		u, err := sess.Users.Login(ctx, username)
		if err != nil {
			return err
		}
		sess.Feed.Seed(u.Username)
		sess.Draft.Reset()
		sess.Shell.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("session login", zap.String("session", id), zap.String("username", sess.Users.User().Username))
	return sess, nil
}

// Get returns a live session, restoring it from the KV store after a restart
// when a logged-in user was persisted. The restored feed is the seed again.
func (r *SessionRegistry) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		r.touch(sess)
		return sess, nil
	}

	restored := r.build(id)
	if err := restored.Users.Load(ctx); err != nil {
		return nil, err
	}
	u := restored.Users.User()
	if !u.IsLoggedIn {
		return nil, ErrSessionNotFound
	}
	restored.Feed.Seed(u.Username)

	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		r.touch(sess)
		return sess, nil
	}
	r.touch(restored)
	r.sessions[id] = restored
	metrics.SessionsActive.Inc()
	r.log.Info("session restored", zap.String("session", id))
	return restored, nil
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRegistry) touch(sess *Session) {
	sess.lastSeen.Store(r.now().UnixNano())
}

// Sweep drops sessions not looked up for longer than idle. A logged-in user
// comes back through Get; only the in-memory feed and draft are lost.
func (r *SessionRegistry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle).UnixNano()
	removed := 0
	for id, sess := range r.sessions {
		if sess.lastSeen.Load() < cutoff {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.SessionsActive.Sub(float64(removed))
		r.log.Info("idle sessions evicted", zap.Int("removed", removed), zap.Int("remaining", len(r.sessions)))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *SessionRegistry) RunSweeper(ctx context.Context, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			r.Sweep(idle)
		case <-ctx.Done():
			return
		}
	}
}
