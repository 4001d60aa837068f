package auth

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestCookiePolicyProduction(t *testing.T) {
	policy := NewCookiePolicy(true, "descripto.ai")

	cookie := policy.build(AccessTokenCookie, "token-value", time.Hour)
	assert.Equal(t, AccessTokenCookie, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, fiber.CookieSameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "descripto.ai", cookie.Domain)
}

func TestCookiePolicyDevelopment(t *testing.T) {
	policy := NewCookiePolicy(false, "descripto.ai")

	cookie := policy.build(RefreshTokenCookie, "token-value", 24*time.Hour)
	assert.True(t, cookie.HTTPOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, fiber.CookieSameSiteLaxMode, cookie.SameSite)
	assert.Empty(t, cookie.Domain)
}

func TestCookiePolicyClear(t *testing.T) {
	policy := NewCookiePolicy(true, "descripto.ai")

	cookie := policy.expired(AccessTokenCookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.Expires.Before(time.Now()))
	// Clearing keeps the same scoping attributes as setting.
	assert.True(t, cookie.HTTPOnly)
	assert.Equal(t, "descripto.ai", cookie.Domain)
}
