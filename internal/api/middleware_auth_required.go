package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/services"
)

func (handler *Handler) RequireAuth(c *fiber.Ctx) error {
	raw := bearerToken(c)
	if raw == "" {
		return handler.unauthorized(c, "missing_token", "missing bearer token")
	}

	claims, err := handler.tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return handler.unauthorized(c, "expired_token", "token expired")
		}
		return handler.unauthorized(c, "invalid_token", "invalid token")
	}
	if claims.TokenType != auth.TokenTypeAccess {
		return handler.unauthorized(c, "wrong_token_type", "access token required")
	}

	user, err := handler.sessions.Resolve(claims)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNeedsReauthentication):
			return handler.unauthorized(c, "legacy_token", "session predates organization accounts, sign in again")
		case errors.Is(err, services.ErrAccountNeedsMigration):
			return handler.unauthorized(c, "unmigrated_account", "account is not attached to an organization")
		default:
			return handler.unauthorized(c, "invalid_token", "invalid token")
		}
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}

// OptionalAuth resolves the principal when a valid access token is
// present and otherwise continues with none. Public endpoints use it so
// a stale Authorization header never turns them into a 401.
func (handler *Handler) OptionalAuth(c *fiber.Ctx) error {
	raw := bearerToken(c)
	if raw == "" {
		return c.Next()
	}
	claims, err := handler.tokens.Verify(raw)
	if err != nil || claims.TokenType != auth.TokenTypeAccess {
		return c.Next()
	}
	user, err := handler.sessions.Resolve(claims)
	if err != nil {
		return c.Next()
	}
	c.Locals(contextUserKey, &user)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
