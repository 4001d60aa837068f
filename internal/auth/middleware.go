package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/descripto-api/internal/domain"
	"github.com/spec-kit/descripto-api/internal/repository"
)

const principalKey = "auth_principal"

// Principal is the per-request binding of a resolved identity. It lives only
// for the request that produced it.
type Principal struct {
	Subject string
	Roles   []string
	User    *domain.User
}

// Middleware resolves a token into a Principal before business handlers run.
// A missing or bad token never aborts the request; the request just proceeds
// unauthenticated and the route guards decide what that means.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewMiddleware constructs the authenticator.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// Handle extracts, validates and binds the caller's identity. Running it
// twice on the same request is a no-op the second time.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if c.Locals(principalKey) != nil {
		return c.Next()
	}

	token := extractToken(c)
	if token == "" {
		return c.Next()
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		m.logger.Debug("token rejected", zap.Error(err), zap.String("path", c.Path()))
		return c.Next()
	}
	if claims.Kind != domain.TokenKindAccess {
		m.logger.Debug("non-access token presented", zap.String("kind", string(claims.Kind)))
		return c.Next()
	}

	user, err := m.users.GetByIdentifier(c.Context(), claims.Subject)
	if err != nil {
		if err != pgx.ErrNoRows {
			m.logger.Warn("identity lookup failed", zap.Error(err))
		}
		return c.Next()
	}
	if !user.Active {
		m.logger.Debug("inactive account presented valid token", zap.String("subject", claims.Subject))
		return c.Next()
	}

	c.Locals(principalKey, &Principal{
		Subject: user.Username(),
		Roles:   user.Roles,
		User:    user,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// extractToken prefers the access token cookie and falls back to the
// Authorization header.
func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
