package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/descripto-api/internal/auth"
	"github.com/spec-kit/descripto-api/internal/config"
	"github.com/spec-kit/descripto-api/internal/domain"
	"github.com/spec-kit/descripto-api/internal/events"
	"github.com/spec-kit/descripto-api/internal/repository"
	apperrors "github.com/spec-kit/descripto-api/pkg/util/errorutil"
)

// Typed auth failures. Messages are deliberately generic; whether an
// identifier exists, a password mismatched, or a token was tampered with is
// never visible in a response.
var (
	ErrInvalidCredentials = apperrors.NewUnauthorized("invalid username or password")
	ErrDuplicateIdentity  = apperrors.NewConflict("identity already registered", nil)
	ErrInvalidToken       = apperrors.NewUnauthorized("invalid token")
	ErrIdentityNotFound   = apperrors.NewUnauthorized("invalid token")
	ErrIdentityInactive   = apperrors.NewForbidden("account disabled")
)

// Session bundles a freshly issued token pair with the identity it belongs to.
type Session struct {
	Pair domain.SessionPair
	User *domain.User
}

// RegisterParams carries the fields for a new account.
type RegisterParams struct {
	Email        string
	MobileNumber string
	Password     string
	FirstName    string
	LastName     string
}

// AuthService orchestrates credential verification, token issuance and
// rotation.
type AuthService struct {
	users      repository.UserRepository
	revoked    repository.RevocationStore
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo        repository.UserRepository
	RevocationStore repository.RevocationStore
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		revoked:    deps.RevocationStore,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL(), cfg.ClockSkew()),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Login authenticates an identifier/password pair and issues a session.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Burn a comparison so misses take as long as mismatches.
			auth.BurnCompare(password)
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrIdentityInactive
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("login succeeded", zap.String("subject", user.Username()))
	return session, nil
}

// Register creates a new account and immediately issues a session for it.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	exists, err := s.users.ExistsByIdentifier(ctx, params.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !exists && params.MobileNumber != "" {
		exists, err = s.users.ExistsByIdentifier(ctx, params.MobileNumber)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        params.Email,
		MobileNumber: params.MobileNumber,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Roles:        []string{domain.RoleUser},
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserRegisteredPayload{Email: user.Email, FirstName: user.FirstName},
	})

	s.logger.Info("registration succeeded", zap.String("subject", user.Username()))
	return session, nil
}

// Refresh rotates a session: the presented refresh token is revoked and a
// brand-new pair is issued. A rotated token can never be redeemed again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}
	if claims.Kind != domain.TokenKindRefresh {
		s.logger.Debug("refresh attempted with wrong token kind", zap.String("kind", string(claims.Kind)))
		return nil, ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if revoked {
		s.logger.Warn("revoked refresh token presented", zap.String("subject", claims.Subject))
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByIdentifier(ctx, claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrIdentityNotFound
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !user.Active {
		return nil, ErrIdentityInactive
	}

	if err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionRefreshed,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload:   events.SessionRefreshedPayload{RotatedTokenID: claims.ID},
	})

	return session, nil
}

// Logout revokes the presented refresh token. It is idempotent: a missing or
// garbage token still results in a logged-out client.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil || claims.Kind != domain.TokenKindRefresh {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLoggedOut,
		UserID:    claims.Subject,
		Timestamp: time.Now(),
	})
	return nil
}

// Profile returns the account behind an identifier.
func (s *AuthService) Profile(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ListUsers returns all accounts, for admin surfaces.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issueSession(user *domain.User) (*Session, error) {
	accessToken, _, err := s.tokens.Generate(user.Username(), user.Roles, domain.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.tokens.Generate(user.Username(), nil, domain.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	return &Session{
		Pair: domain.SessionPair{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			TokenType:        "Bearer",
			ExpiresInSeconds: int64(s.tokens.AccessTTL().Seconds()),
		},
		User: user,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
