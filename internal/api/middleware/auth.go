package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookinghub/user-service/internal/api/metrics"
	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/ports"
	"github.com/bookinghub/user-service/internal/core/token"
)

// RefreshTokenHeader carries the refresh half of the presented pair. The
// access half rides the standard Authorization bearer header.
const RefreshTokenHeader = "X-Refresh-Token"

// Session resolves the presented token pair and injects the claims into the
// request context. Protected handlers never run without a valid session.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			pair, err := PairFromRequest(c)
			if err != nil {
				metrics.TokenResolutionsTotal.WithLabelValues("failed").Inc()
				return err
			}

			claims, err := sessions.Resolve(pair)
			if err != nil {
				metrics.TokenResolutionsTotal.WithLabelValues("failed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			metrics.TokenResolutionsTotal.WithLabelValues(resolutionOutcome(claims)).Inc()

			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			c.Set("claims", claims)

			return next(c)
		}
	}
}

// PairFromRequest extracts the access+refresh pair from the request headers.
func PairFromRequest(c echo.Context) (domain.TokenPair, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return domain.TokenPair{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.TokenPair{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	return domain.TokenPair{
		AccessToken:  parts[1],
		RefreshToken: c.Request().Header.Get(RefreshTokenHeader),
	}, nil
}

// resolutionOutcome labels a successful resolution by the type tag of the
// winning token. The tag is informational: the codec does not enforce it.
func resolutionOutcome(claims *token.Claims) string {
	if claims.TokenType == token.TypeRefresh {
		return "refresh_fallback"
	}
	return "access"
}
