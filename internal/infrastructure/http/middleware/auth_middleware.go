package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/auth"
)

// ConnectionChecker reports the state of the Google account connection
type ConnectionChecker interface {
	Status(ctx context.Context) (*auth.Connection, error)
}

// ConnectionContextKey is the echo context key of the current connection
const ConnectionContextKey = "connection"

// RequireConnection rejects requests until a Google account is connected.
// The connection is stored in the echo context for handlers.
func RequireConnection(checker ConnectionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if checker == nil {
				return apperrors.ErrUnauthenticated().WithDetail("reason", "google login is not configured")
			}

			conn, err := checker.Status(c.Request().Context())
			if err != nil {
				return err
			}
			if !conn.Connected {
				return apperrors.ErrUnauthenticated().WithDetail("reason", entities.ErrNotConnected.Error())
			}

			c.Set(ConnectionContextKey, conn)
			return next(c)
		}
	}
}

// GetConnection retrieves the connection set by RequireConnection
func GetConnection(c echo.Context) (*auth.Connection, bool) {
	conn, ok := c.Get(ConnectionContextKey).(*auth.Connection)
	return conn, ok
}
