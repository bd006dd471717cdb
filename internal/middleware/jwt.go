package middleware

import (
	"context"
	"net/http"

	"gymetra/internal/common"
	"gymetra/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// claimsContextKey is where the validated claims live on the echo context.
const claimsContextKey = "user"

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error)
}

// JWTConfig builds the echo-jwt configuration for protected routes. Tokens
// are validated by the auth service (signature, issuer, expiry, revocation)
// and the caller is placed on the request context.
func JWTConfig(validator TokenValidator, logger zerolog.Logger) echojwt.Config {
	return echojwt.Config{
		ContextKey: claimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := validator.ValidateToken(c.Request().Context(), auth)
			if err != nil {
				return nil, err
			}
			ctx := common.WithSession(c.Request().Context(), claims.UserID, claims.Role, claims.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.Debug().Err(err).Str("path", c.Path()).Msg("rejected bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// JWTMiddleware guards a route group with bearer token authentication
func JWTMiddleware(validator TokenValidator, logger zerolog.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(JWTConfig(validator, logger))
}

// ClaimsFromContext returns the claims of the token that authenticated the request.
func ClaimsFromContext(c echo.Context) (*services.TokenClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*services.TokenClaims)
	return claims, ok && claims != nil
}
