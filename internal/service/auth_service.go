package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/auth"
	"github.com/spec-kit/delivery-auth/internal/config"
	"github.com/spec-kit/delivery-auth/internal/domain"
	"github.com/spec-kit/delivery-auth/internal/events"
	"github.com/spec-kit/delivery-auth/internal/observability"
	"github.com/spec-kit/delivery-auth/internal/repository"
	apperrors "github.com/spec-kit/delivery-auth/pkg/util"
)

// Credential failures are flattened to fixed messages so responses carry no
// account-enumeration or token-state signal. Detail goes to the audit log.
const (
	msgInvalidCredentials  = "Invalid credentials"
	msgInvalidRefreshToken = "Invalid or expired refresh token"
)

// AuthResult bundles the freshly issued token pair with the authenticated user.
type AuthResult struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *domain.User
}

// AuthService coordinates registration, login, refresh and logout flows.
type AuthService struct {
	users      repository.UserRepository
	denylist   repository.TokenDenylist
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	dirTimeout time.Duration
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Denylist   repository.TokenDenylist
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		denylist:   deps.Denylist,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		dirTimeout: cfg.Auth.DirectoryTimeout(),
	}
}

// Register creates a new account with the given role. A duplicate email
// surfaces as a conflict through the database unique constraint.
func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, email, events.UserRegisteredPayload{Role: user.Role})
	return user, nil
}

// Login verifies credentials and issues both token flavors. Unknown email and
// wrong password produce the identical failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.dirTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(lookupCtx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publish(ctx, events.EventLoginFailed, "", email, events.LoginFailedPayload{Reason: "unknown email"})
			return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewDirectoryUnavailable(err)
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publish(ctx, events.EventLoginFailed, user.ID, email, events.LoginFailedPayload{Reason: "password mismatch"})
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventLoginSucceeded, user.ID, email, nil)
	return result, nil
}

// Refresh validates a refresh token and issues a fresh pair. The user is
// re-read from the directory so a role change is reflected in the new tokens.
// Invalid, expired and revoked tokens all yield the same failure.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.FlavorRefresh)
	if err != nil {
		s.logger.Warn("refresh token rejected", zap.Error(err))
		return nil, apperrors.NewUnauthorized(msgInvalidRefreshToken)
	}

	revoked, err := s.denylist.IsRevoked(ctx, refreshToken)
	if err != nil {
		// Denylist outage must not lock everyone out; the token still passed
		// signature and expiry checks.
		s.logger.Warn("denylist lookup failed", zap.Error(err))
	} else if revoked {
		s.logger.Warn("revoked refresh token presented", zap.String("user_id", claims.Subject))
		return nil, apperrors.NewUnauthorized(msgInvalidRefreshToken)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.dirTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(lookupCtx, claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("refresh for unknown user", zap.String("email", claims.Email))
			return nil, apperrors.NewUnauthorized(msgInvalidRefreshToken)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewDirectoryUnavailable(err)
		}
		return nil, err
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTokenRefreshed, user.ID, user.Email, events.TokenRefreshedPayload{Role: user.Role})
	return result, nil
}

// Logout revokes the presented refresh token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken, auth.FlavorRefresh)
	if err != nil {
		return apperrors.NewUnauthorized(msgInvalidRefreshToken)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.denylist.Revoke(ctx, refreshToken, ttl); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventTokenRevoked, claims.Subject, claims.Email, nil)
	return nil
}

func (s *AuthService) issuePair(user *domain.User) (*AuthResult, error) {
	accessToken, accessExp, err := s.tokens.Issue(user, auth.FlavorAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokens.Issue(user, auth.FlavorRefresh)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
		User:             user,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID, email string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Email:     email,
		RequestID: observability.RequestIDFrom(ctx),
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
