package auth

import (
	"strings"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext describes the authenticated caller of a request
type AuthContext struct {
	UserID *kernel.UserID
	Email  kernel.Email
	Role   kernel.UserRole
	Scopes []string
}

// Actor converts the context into the service-layer caller identity
func (a *AuthContext) Actor() *kernel.Actor {
	if a == nil || a.UserID == nil {
		return nil
	}
	return &kernel.Actor{UserID: *a.UserID, Role: a.Role}
}

// HasScope reports whether any granted scope covers scope
func (a *AuthContext) HasScope(scope string) bool {
	if a == nil {
		return false
	}
	for _, s := range a.Scopes {
		if ScopeMatches(s, scope) {
			return true
		}
	}
	return false
}

// NewAuthContext builds the context for validated claims
func NewAuthContext(claims *TokenClaims) *AuthContext {
	userID := claims.UserID
	return &AuthContext{
		UserID: &userID,
		Email:  claims.Email,
		Role:   claims.Role,
		Scopes: ScopesForRole(claims.Role),
	}
}

// SetAuthContext stores the auth context on the request
func SetAuthContext(c *fiber.Ctx, ac *AuthContext) {
	c.Locals(authContextKey, ac)
}

// GetAuthContext returns the auth context set by the middleware
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	ac, ok := c.Locals(authContextKey).(*AuthContext)
	return ac, ok && ac != nil
}

// ActorFrom returns the caller of the request, or nil when anonymous
func ActorFrom(c *fiber.Ctx) *kernel.Actor {
	ac, ok := GetAuthContext(c)
	if !ok {
		return nil
	}
	return ac.Actor()
}

// TokenMiddleware authenticates requests carrying a bearer token
type TokenMiddleware struct {
	tokenService TokenService
}

// NewAuthMiddleware creates a bearer-token middleware
func NewAuthMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate rejects requests without a valid token
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if token == "" {
			return ErrMissingToken()
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		SetAuthContext(c, NewAuthContext(claims))
		return c.Next()
	}
}

// Optional authenticates when a token is present and lets anonymous requests through.
// A malformed or invalid token is still rejected.
func (m *TokenMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if token == "" {
			return c.Next()
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		SetAuthContext(c, NewAuthContext(claims))
		return c.Next()
	}
}

// RequireScope must run after Authenticate
func (m *TokenMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !ac.HasScope(scope) {
			return ErrInsufficientScope().WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// An absent header yields an empty token.
func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidToken().WithDetail("reason", "invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}
