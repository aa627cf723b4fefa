package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"project-service/internal/domain"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const currentUserKey = "current_user"

// CurrentUserResolver maps a bearer token to the authenticated user
type CurrentUserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// Authenticate requires a valid bearer token and stores the resolved user on the context.
// Failures are returned as errors for the HTTP error handler to render.
func Authenticate(resolver CurrentUserResolver, base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c, base)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				prometheus.RecordAuthError("missing_token")
				return fmt.Errorf("%w: missing authorization token", domain.ErrUnauthenticated)
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				prometheus.RecordAuthError("invalid_auth_format")
				return fmt.Errorf("%w: expected Bearer token", domain.ErrUnauthenticated)
			}

			user, err := resolver.ResolveCurrentUser(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					log.Info("Rejected bearer token", zap.Error(err))
					prometheus.RecordAuthError("invalid_token")
				}
				return err
			}

			c.Set(currentUserKey, user)
			log.Debug("Request authenticated",
				zap.String("user_id", user.ID.String()),
				zap.String("tenant_id", user.TenantID.String()))
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Authenticate
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(currentUserKey).(*domain.User)
	return user, ok && user != nil
}
