package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/descripto-api/internal/api/dto"
	"github.com/spec-kit/descripto-api/internal/auth"
	"github.com/spec-kit/descripto-api/internal/domain"
	"github.com/spec-kit/descripto-api/internal/service"
)

// AuthHandler exposes session lifecycle endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies auth.CookiePolicy
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies auth.CookiePolicy) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	session, err := h.auth.Register(c.Context(), service.RegisterParams{
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		return err
	}

	h.attachCookies(c, session)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": sessionResponse(session),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	session, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.attachCookies(c, session)
	return c.JSON(fiber.Map{
		"data": sessionResponse(session),
	})
}

// Refresh handles POST /auth/refresh. The refresh token is read from its
// cookie, falling back to the request body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(auth.RefreshTokenCookie)
	if token == "" {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return fiber.NewError(http.StatusBadRequest, "no refresh token provided")
	}

	session, err := h.auth.Refresh(c.Context(), token)
	if err != nil {
		return err
	}

	h.attachCookies(c, session)
	return c.JSON(fiber.Map{
		"data": sessionResponse(session),
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context(), c.Cookies(auth.RefreshTokenCookie)); err != nil {
		return err
	}
	h.cookies.Clear(c)
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "logged out"},
	})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	user, err := h.auth.Profile(c.Context(), principal.Subject)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": profileResponse(user),
	})
}

// ListUsers handles GET /api/v1/users (admin only).
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}

	result := make([]dto.ProfileResponse, 0, len(users))
	for i := range users {
		result = append(result, profileResponse(&users[i]))
	}
	return c.JSON(fiber.Map{
		"data": result,
	})
}

func (h *AuthHandler) attachCookies(c *fiber.Ctx, session *service.Session) {
	tokens := h.auth.TokenManager()
	h.cookies.Apply(c, &session.Pair, tokens.AccessTTL(), tokens.RefreshTTL())
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:  session.Pair.AccessToken,
		RefreshToken: session.Pair.RefreshToken,
		TokenType:    session.Pair.TokenType,
		ExpiresIn:    session.Pair.ExpiresInSeconds,
		Username:     session.User.Username(),
		Email:        session.User.Email,
		Roles:        session.User.Roles,
	}
}

func profileResponse(user *domain.User) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:        user.ID,
		Username:  user.Username(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLogin != nil {
		resp.LastLoginAt = user.LastLogin.Format(time.RFC3339)
	}
	return resp
}
