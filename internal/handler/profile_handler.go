package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/service"
)

type ProfileHandler struct {
	avatars service.AvatarGenerator
}

func NewProfileHandler(avatars service.AvatarGenerator) *ProfileHandler {
	return &ProfileHandler{avatars: avatars}
}

func (h *ProfileHandler) Get(c echo.Context) error {
	return h.withProfile(c, func(sess *service.Session) (model.Profile, error) {
		return sess.Prefs.Profile(c.Request().Context())
	})
}

func (h *ProfileHandler) Update(c echo.Context) error {
	var req model.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.withProfile(c, func(sess *service.Session) (model.Profile, error) {
		return sess.Prefs.Update(c.Request().Context(), req)
	})
}

func (h *ProfileHandler) Bind(c echo.Context) error {
	provider := c.Param("provider")
	switch provider {
	case "wechat":
		return h.withProfile(c, func(sess *service.Session) (model.Profile, error) {
			return sess.Prefs.BindWechat(c.Request().Context())
		})
	case "apple":
		return h.withProfile(c, func(sess *service.Session) (model.Profile, error) {
			return sess.Prefs.BindApple(c.Request().Context())
		})
	default:
		return badRequest(c, "unknown provider")
	}
}

// GenerateAvatar keeps the previous avatar when the model returns nothing.
func (h *ProfileHandler) GenerateAvatar(c echo.Context) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	p, generated, err := sess.GenerateAvatar(c.Request().Context(), h.avatars)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"applied": generated,
		"profile": p,
	})
}

func (h *ProfileHandler) withProfile(c echo.Context, fn func(sess *service.Session) (model.Profile, error)) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var p model.Profile
	err := sess.Do(func() error {
		var err error
		p, err = fn(sess)
		return err
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
