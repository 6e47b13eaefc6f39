package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/handler"
	"github.com/shinyyama/herspace-backend/internal/reqctx"
	"github.com/shinyyama/herspace-backend/internal/service"
)

const SessionHeader = "X-Session-ID"

type SessionMiddleware struct {
	reg *service.SessionRegistry
}

func NewSessionMiddleware(reg *service.SessionRegistry) *SessionMiddleware {
	return &SessionMiddleware{reg: reg}
}

// SessionID reads the session id from X-Session-ID, falling back to a bearer
// token.
func SessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	return ""
}

func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := SessionID(c.Request())
		if id == "" {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "missing session id"))
		}
		sess, err := m.reg.Get(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "unknown session"))
			}
			return c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal_error", err.Error()))
		}
		c.Set(handler.SessionKey, sess)
		c.SetRequest(c.Request().WithContext(reqctx.WithSessionID(c.Request().Context(), sess.ID)))
		return next(c)
	}
}
