package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/bahikhata/backend/internal/domain/identity"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/bahikhata/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for a wrong username or password. The
// two cases are deliberately indistinguishable.
var ErrInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")

// AuthService handles operator login and token lifecycle. Logout blacklists
// the token's JTI until the token would have expired on its own.
type AuthService struct {
	users     identity.UserRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users identity.UserRepository, jwt *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		jwt:       jwt,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.CheckPassword(password) {
		s.logger.Warn("failed login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The used refresh
// token is blacklisted so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, auth.ErrTokenBlacklisted
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}

	pair, err := s.jwt.GenerateTokenPair(userID, claims.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if err := s.blacklist.Blacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("failed to blacklist used refresh token", zap.Error(err))
	}
	return pair, nil
}

// Logout revokes an access token for the remainder of its lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		// An invalid or expired token has nothing left to revoke.
		return nil
	}
	if err := s.blacklist.Blacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// VerifyAccessToken validates a token and checks it against the blacklist.
// The HTTP middleware calls this on every protected request.
func (s *AuthService) VerifyAccessToken(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}

// Register creates an operator account. Exposed through the migrate/seed
// tooling rather than the public API.
func (s *AuthService) Register(ctx context.Context, username, password string) (*identity.User, error) {
	user, err := identity.NewUser(username, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
