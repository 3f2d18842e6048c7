package middleware

import (
	"context"
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/MicahParks/keyfunc/v2"
)

// AdminJWT protects the admin surface. Two validation modes:
//   - HMAC: tokens signed with the shared ADMIN_JWT_SECRET
//   - JWKS: when a JWKS URL is configured, signatures are validated against
//     the remote key set instead (external identity provider)
//
// Exactly one mode is active per deployment.
func AdminJWT(secret, jwksURL string) (echo.MiddlewareFunc, error) {
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			Ctx: context.Background(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
		}
		return echojwt.WithConfig(echojwt.Config{
			KeyFunc: jwks.Keyfunc,
		}), nil
	}

	if secret == "" {
		return nil, fmt.Errorf("admin JWT secret is not configured")
	}
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
	}), nil
}
