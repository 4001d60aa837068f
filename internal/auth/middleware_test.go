package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/descripto-api/internal/domain"
)

type fakeUserRepo struct {
	users   []*domain.User
	lookups int
}

func (f *fakeUserRepo) Create(_ context.Context, _ *domain.User) error { return nil }
func (f *fakeUserRepo) Update(_ context.Context, _ *domain.User) error { return nil }
func (f *fakeUserRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	f.lookups++
	for _, user := range f.users {
		if user.Email == identifier || user.MobileNumber == identifier {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (f *fakeUserRepo) ExistsByIdentifier(ctx context.Context, identifier string) (bool, error) {
	_, err := f.GetByIdentifier(ctx, identifier)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
func (f *fakeUserRepo) TouchLastLogin(_ context.Context, _ string, _ time.Time) error { return nil }
func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error)                 { return nil, nil }

type whoami struct {
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
}

func newMiddlewareApp(tm *TokenManager, repo *fakeUserRepo, handlers int) *fiber.App {
	app := fiber.New()
	mw := NewMiddleware(tm, repo, zap.NewNop())
	for i := 0; i < handlers; i++ {
		app.Use(mw.Handle)
	}
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if principal, ok := PrincipalFromContext(c); ok {
			return c.JSON(whoami{Subject: principal.Subject, Roles: principal.Roles})
		}
		return c.JSON(whoami{})
	})
	return app
}

func doWhoami(t *testing.T, app *fiber.App, configure func(req *http.Request)) whoami {
	t.Helper()

	req := httptest.NewRequest("GET", "/whoami", nil)
	if configure != nil {
		configure(req)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body whoami
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func activeUser() *domain.User {
	return &domain.User{
		ID:     "u1",
		Email:  "user@example.com",
		Roles:  []string{domain.RoleUser},
		Active: true,
	}
}

func TestMiddlewareAuthenticatesFromCookie(t *testing.T) {
	tm := newTestManager()
	repo := &fakeUserRepo{users: []*domain.User{activeUser()}}
	app := newMiddlewareApp(tm, repo, 1)

	token, _, err := tm.Generate("user@example.com", []string{domain.RoleUser}, domain.TokenKindAccess)
	require.NoError(t, err)

	body := doWhoami(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	})
	assert.Equal(t, "user@example.com", body.Subject)
	assert.Equal(t, []string{domain.RoleUser}, body.Roles)
}

func TestMiddlewareAuthenticatesFromBearerHeader(t *testing.T) {
	tm := newTestManager()
	repo := &fakeUserRepo{users: []*domain.User{activeUser()}}
	app := newMiddlewareApp(tm, repo, 1)

	token, _, err := tm.Generate("user@example.com", []string{domain.RoleUser}, domain.TokenKindAccess)
	require.NoError(t, err)

	body := doWhoami(t, app, func(req *http.Request) {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	})
	assert.Equal(t, "user@example.com", body.Subject)
}

func TestMiddlewareProceedsWithoutToken(t *testing.T) {
	tm := newTestManager()
	repo := &fakeUserRepo{}
	app := newMiddlewareApp(tm, repo, 1)

	body := doWhoami(t, app, nil)
	assert.Empty(t, body.Subject)
	assert.Zero(t, repo.lookups)
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	tm := newTestManager()
	repo := &fakeUserRepo{users: []*domain.User{activeUser()}}
	app := newMiddlewareApp(tm, repo, 1)

	body := doWhoami(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "not-a-jwt"})
	})
	assert.Empty(t, body.Subject)
	assert.Zero(t, repo.lookups)
}

func TestMiddlewareRejectsRefreshToken(t *testing.T) {
	tm := newTestManager()
	repo := &fakeUserRepo{users: []*domain.User{activeUser()}}
	app := newMiddlewareApp(tm, repo, 1)

	token, _, err := tm.Generate("user@example.com", nil, domain.TokenKindRefresh)
	require.NoError(t, err)

	body := doWhoami(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	})
	assert.Empty(t, body.Subject)
	assert.Zero(t, repo.lookups)
}

func TestMiddlewareRejectsInactiveAccount(t *testing.T) {
	tm := newTestManager()
	user := activeUser()
	user.Active = false
	repo := &fakeUserRepo{users: []*domain.User{user}}
	app := newMiddlewareApp(tm, repo, 1)

	token, _, err := tm.Generate("user@example.com", []string{domain.RoleUser}, domain.TokenKindAccess)
	require.NoError(t, err)

	body := doWhoami(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	})
	assert.Empty(t, body.Subject)
}

func TestMiddlewareRejectsUnknownSubject(t *testing.T) {
	tm := newTestManager()
	repo := &fakeUserRepo{}
	app := newMiddlewareApp(tm, repo, 1)

	token, _, err := tm.Generate("ghost@example.com", nil, domain.TokenKindAccess)
	require.NoError(t, err)

	body := doWhoami(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	})
	assert.Empty(t, body.Subject)
	assert.Equal(t, 1, repo.lookups)
}

func TestMiddlewareIdempotent(t *testing.T) {
	tm := newTestManager()
	repo := &fakeUserRepo{users: []*domain.User{activeUser()}}
	// Registered twice; the second pass must reuse the bound principal.
	app := newMiddlewareApp(tm, repo, 2)

	token, _, err := tm.Generate("user@example.com", []string{domain.RoleUser}, domain.TokenKindAccess)
	require.NoError(t, err)

	body := doWhoami(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	})
	assert.Equal(t, "user@example.com", body.Subject)
	assert.Equal(t, 1, repo.lookups)
}
