package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/service"
)

type SessionHandler struct {
	reg *service.SessionRegistry
	now func() time.Time
}

func NewSessionHandler(reg *service.SessionRegistry, now func() time.Time) *SessionHandler {
	if now == nil {
		now = time.Now
	}
	return &SessionHandler{reg: reg, now: now}
}

type loginRequest struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
}

type sessionResponse struct {
	SessionID      string     `json:"sessionId"`
	User           model.User `json:"user"`
	Greeting       string     `json:"greeting"`
	CheckedInToday bool       `json:"checkedInToday"`
	BirthdayToday  bool       `json:"birthdayToday"`
}

// Login answers the login screen. The session id may come from the body or
// the usual headers; a new one is issued when neither is present.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	id := req.SessionID
	if id == "" {
		id = c.Request().Header.Get("X-Session-ID")
	}
	sess, err := h.reg.Login(c.Request().Context(), id, req.Username)
	if err != nil {
		return internalError(c, err)
	}
	return h.respond(c, sess)
}

func (h *SessionHandler) Get(c echo.Context) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	return h.respond(c, sess)
}

func (h *SessionHandler) respond(c echo.Context, sess *service.Session) error {
	ctx := c.Request().Context()
	var res sessionResponse
	err := sess.Do(func() error {
		return h.fill(ctx, sess, &res)
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SessionHandler) fill(ctx context.Context, sess *service.Session, res *sessionResponse) error {
	greeting, err := sess.Prefs.GreetingName(ctx)
	if err != nil {
		return err
	}
	bday, err := sess.Prefs.BirthdayToday(ctx, h.now())
	if err != nil {
		return err
	}
	*res = sessionResponse{
		SessionID:      sess.ID,
		User:           sess.Users.User(),
		Greeting:       greeting,
		CheckedInToday: sess.Rewards.CheckedInToday(),
		BirthdayToday:  bday,
	}
	return nil
}
