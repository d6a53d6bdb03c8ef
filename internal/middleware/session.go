package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

// SessionKey is the echo context key of the request's database session.
const SessionKey = "db_session"

// SessionMiddleware gives every API request its own database session.
type SessionMiddleware struct {
	server *server.Server
}

func NewSessionMiddleware(s *server.Server) *SessionMiddleware {
	return &SessionMiddleware{server: s}
}

// Open borrows one session for the request and releases it when the
// handler returns, errors, panics or the request is cancelled. Work the
// handler did not commit is rolled back. Failing to obtain a session
// (pool exhausted, database down) fails the request before the handler runs.
func (sm *SessionMiddleware) Open() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return sm.server.DB.Sessions.WithSession(c.Request().Context(), func(_ context.Context, s *database.Session) error {
				c.Set(SessionKey, s)
				defer c.Set(SessionKey, nil)

				return next(c)
			})
		}
	}
}

// GetSession returns the request's session, nil outside Open.
func GetSession(c echo.Context) *database.Session {
	if s, ok := c.Get(SessionKey).(*database.Session); ok {
		return s
	}
	return nil
}
