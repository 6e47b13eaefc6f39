package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/service"
)

// SessionKey is where the session middleware stores the resolved *service.Session.
const SessionKey = "session"

func sessionFrom(c echo.Context) (*service.Session, bool) {
	sess, ok := c.Get(SessionKey).(*service.Session)
	return sess, ok && sess != nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing session"))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", msg))
}

func internalError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
}

// runOutcome executes an action under the session lock and writes its
// outcome. Precondition failures are still 200 with applied=false.
func runOutcome(c echo.Context, action func(ctx context.Context, sess *service.Session) (service.Outcome, error)) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	ctx := c.Request().Context()
	var out service.Outcome
	err := sess.Do(func() error {
		var err error
		out, err = action(ctx, sess)
		return err
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
