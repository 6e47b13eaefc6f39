package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/repository"
)

// AvatarGenerator is satisfied by *ai.Gateway.
type AvatarGenerator interface {
	Avatar(ctx context.Context, jobTitle, mood string) *string
}

// PreferenceService reads and writes the scalar profile fields of a session.
// Values are stored as strings and never validated.
type PreferenceService struct {
	kv    repository.KVRepository
	ns    string
	users *UserStore
}

func NewPreferenceService(kv repository.KVRepository, namespace string, users *UserStore) *PreferenceService {
	return &PreferenceService{kv: kv, ns: namespace, users: users}
}

func (s *PreferenceService) get(ctx context.Context, key string) (string, error) {
	v, ok, err := s.kv.Get(ctx, s.ns, key)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return model.PrefDefaults[key], nil
	}
	return v, nil
}

func (s *PreferenceService) set(ctx context.Context, key, value string) error {
	if err := s.kv.Set(ctx, s.ns, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *PreferenceService) Profile(ctx context.Context) (model.Profile, error) {
	vals := make(map[string]string, len(model.PrefDefaults))
	for key := range model.PrefDefaults {
		v, err := s.get(ctx, key)
		if err != nil {
			return model.Profile{}, err
		}
		vals[key] = v
	}
	return model.Profile{
		Nickname:    vals[model.PrefNickname],
		Avatar:      vals[model.PrefAvatar],
		Address:     vals[model.PrefAddress],
		JobTitle:    vals[model.PrefJob],
		MentalState: vals[model.PrefMental],
		Birthday:    vals[model.PrefBirthday],
		Xiaohongshu: vals[model.PrefXiaohongshu],
		Wechat:      vals[model.PrefWechat],
		Phone:       vals[model.PrefPhone],
		WechatBound: vals[model.PrefWechatBound] == "true",
		AppleBound:  vals[model.PrefAppleBound] == "true",
		Mood:        vals[model.PrefMood],
		Motto:       vals[model.PrefMotto],
	}, nil
}

func (s *PreferenceService) Update(ctx context.Context, upd model.ProfileUpdate) (model.Profile, error) {
	fields := []struct {
		key string
		val *string
	}{
		{model.PrefNickname, upd.Nickname},
		{model.PrefAvatar, upd.Avatar},
		{model.PrefAddress, upd.Address},
		{model.PrefJob, upd.JobTitle},
		{model.PrefMental, upd.MentalState},
		{model.PrefBirthday, upd.Birthday},
		{model.PrefXiaohongshu, upd.Xiaohongshu},
		{model.PrefWechat, upd.Wechat},
		{model.PrefPhone, upd.Phone},
		{model.PrefMood, upd.Mood},
		{model.PrefMotto, upd.Motto},
	}
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		if err := s.set(ctx, f.key, *f.val); err != nil {
			return model.Profile{}, err
		}
	}
	return s.Profile(ctx)
}

// BindWechat and BindApple only flip a flag; binding twice is harmless.
func (s *PreferenceService) BindWechat(ctx context.Context) (model.Profile, error) {
	if err := s.set(ctx, model.PrefWechatBound, "true"); err != nil {
		return model.Profile{}, err
	}
	return s.Profile(ctx)
}

func (s *PreferenceService) BindApple(ctx context.Context) (model.Profile, error) {
	if err := s.set(ctx, model.PrefAppleBound, "true"); err != nil {
		return model.Profile{}, err
	}
	return s.Profile(ctx)
}

// AvatarInput returns what the avatar prompt is built from.
func (s *PreferenceService) AvatarInput(ctx context.Context) (jobTitle, mentalState string, err error) {
	if jobTitle, err = s.get(ctx, model.PrefJob); err != nil {
		return "", "", err
	}
	if mentalState, err = s.get(ctx, model.PrefMental); err != nil {
		return "", "", err
	}
	return jobTitle, mentalState, nil
}

func (s *PreferenceService) SetAvatar(ctx context.Context, url string) (model.Profile, error) {
	if err := s.set(ctx, model.PrefAvatar, url); err != nil {
		return model.Profile{}, err
	}
	return s.Profile(ctx)
}

// BirthdayToday compares month and day of the stored yyyy-mm-dd birthday.
func (s *PreferenceService) BirthdayToday(ctx context.Context, now time.Time) (bool, error) {
	raw, err := s.get(ctx, model.PrefBirthday)
	if err != nil {
		return false, err
	}
	return isBirthday(raw, now), nil
}

func isBirthday(raw string, now time.Time) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	b, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return false
	}
	return b.Month() == now.Month() && b.Day() == now.Day()
}

// GreetingName is the explicitly saved nickname, else the username, else the
// guest label. The nickname default does not count.
func (s *PreferenceService) GreetingName(ctx context.Context) (string, error) {
	v, ok, err := s.kv.Get(ctx, s.ns, model.PrefNickname)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", model.PrefNickname, err)
	}
	if ok && v != "" {
		return v, nil
	}
	if name := s.users.User().Username; name != "" {
		return name, nil
	}
	return model.GuestName, nil
}
