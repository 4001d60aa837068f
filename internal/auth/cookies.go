package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/descripto-api/internal/domain"
)

// Cookie names carrying the session pair.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookiePolicy is the single construction point for auth cookies. Every code
// path that sets or clears them goes through this type so attributes cannot
// drift between login, refresh and logout.
type CookiePolicy struct {
	production bool
	domain     string
}

// NewCookiePolicy builds the policy for the given environment mode.
func NewCookiePolicy(production bool, domain string) CookiePolicy {
	return CookiePolicy{production: production, domain: domain}
}

// Apply attaches both session cookies to the response, each scoped to its
// token's lifetime.
func (p CookiePolicy) Apply(c *fiber.Ctx, pair *domain.SessionPair, accessTTL, refreshTTL time.Duration) {
	c.Cookie(p.build(AccessTokenCookie, pair.AccessToken, accessTTL))
	c.Cookie(p.build(RefreshTokenCookie, pair.RefreshToken, refreshTTL))
}

// Clear expires both session cookies.
func (p CookiePolicy) Clear(c *fiber.Ctx) {
	c.Cookie(p.expired(AccessTokenCookie))
	c.Cookie(p.expired(RefreshTokenCookie))
}

func (p CookiePolicy) build(name, value string, ttl time.Duration) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   p.production,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if p.production {
		cookie.SameSite = fiber.CookieSameSiteStrictMode
		cookie.Domain = p.domain
	}
	return cookie
}

func (p CookiePolicy) expired(name string) *fiber.Cookie {
	cookie := p.build(name, "", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Now().Add(-time.Hour)
	return cookie
}
