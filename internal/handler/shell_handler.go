package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/service"
)

type ShellHandler struct{}

func NewShellHandler() *ShellHandler {
	return &ShellHandler{}
}

func (h *ShellHandler) Get(c echo.Context) error {
	return h.withState(c, func(sess *service.Session) (service.ShellState, error) {
		return sess.Shell.State(c.Request().Context())
	})
}

type setTabRequest struct {
	Tab model.Tab `json:"tab"`
}

func (h *ShellHandler) SetTab(c echo.Context) error {
	var req setTabRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.withState(c, func(sess *service.Session) (service.ShellState, error) {
		if err := sess.Shell.SetTab(req.Tab); err != nil {
			return service.ShellState{}, err
		}
		return sess.Shell.State(c.Request().Context())
	})
}

func (h *ShellHandler) CompleteTutorial(c echo.Context) error {
	return h.withState(c, func(sess *service.Session) (service.ShellState, error) {
		return sess.Shell.CompleteTutorial(c.Request().Context())
	})
}

func (h *ShellHandler) withState(c echo.Context, fn func(sess *service.Session) (service.ShellState, error)) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var st service.ShellState
	err := sess.Do(func() error {
		var err error
		st, err = fn(sess)
		return err
	})
	if errors.Is(err, service.ErrUnknownTab) {
		return badRequest(c, err.Error())
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
