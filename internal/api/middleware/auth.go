package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// UserKey is the echo context key holding the authenticated *domain.User.
const UserKey = "user"

// Authenticate resolves the access token to a user and attaches it to the
// context. The token is read from the Authorization header, or from the
// token query parameter for clients that cannot set headers (EventSource).
func Authenticate(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				token = c.QueryParam("token")
			}
			if token == "" {
				return domain.Unauthenticated("Unauthorized request - No token provided")
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user attached by Authenticate.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
