package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/malcolmm20/farmlink/internal/cache"
	"github.com/malcolmm20/farmlink/internal/config"
	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates session tokens.
type AuthService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
}

// NewAuthService creates the auth service.
func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, jwtCfg: jwtCfg}
}

// SessionClaims is the JWT claim set for a logged-in user.
type SessionClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Location string `json:"location"`
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	taken, err := s.userRepo.UsernameTaken(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if taken {
		return nil, "", time.Time{}, ErrUsernameTaken
	}

	role := strings.TrimSpace(input.Role)
	switch role {
	case "", constants.RoleCustomer:
		role = constants.RoleCustomer
	case constants.RoleFarmer:
	default:
		// admin accounts are never self-registered
		return nil, "", time.Time{}, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Location:     strings.TrimSpace(input.Location),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateToken(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	logger.Infow("user_registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, token, expiresAt, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(username, password string) (*models.User, string, time.Time, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		// burn a bcrypt round so absent and wrong-password take similar time
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZwCZzx0XG3S0YqhBkLrLyzGzPq9o6"), []byte(password))
		return nil, "", time.Time{}, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warnw("login_failed", "username", username)
		return nil, "", time.Time{}, ErrInvalidCredential
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		logger.Warnw("login_touch_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	token, expiresAt, err := s.GenerateToken(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	logger.Infow("user_logged_in", "user_id", user.ID, "username", user.Username)
	return user, token, expiresAt, nil
}

// GenerateToken signs a session token. expireHours of 0 uses the
// configured lifetime.
func (s *AuthService) GenerateToken(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = s.jwtCfg.ExpireHours
	}
	if resolvedHours <= 0 {
		resolvedHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(resolvedHours) * time.Hour)
	claims := SessionClaims{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates a session token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ResolveAuthState loads the auth snapshot for a token, preferring the
// redis copy and falling back to the user table. Returns nil when the
// token's version no longer matches.
func (s *AuthService) ResolveAuthState(ctx context.Context, claims *SessionClaims) (*cache.UserAuthState, error) {
	if claims == nil || claims.UserID == 0 {
		return nil, nil
	}
	state, hit, err := cache.GetUserAuthState(ctx, claims.UserID)
	if err != nil {
		logger.Warnw("auth_state_cache_read_failed", "user_id", claims.UserID, "error", err)
	}
	if !hit {
		user, err := s.userRepo.GetByID(claims.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, nil
		}
		state = cache.BuildUserAuthState(user)
		_ = cache.SetUserAuthState(ctx, state)
	}
	if state == nil || state.TokenVersion != claims.TokenVersion {
		return nil, nil
	}
	return state, nil
}

// InvalidateSessions bumps the token version, expiring every issued token.
func (s *AuthService) InvalidateSessions(user *models.User) error {
	if user == nil {
		return ErrUserNotFound
	}
	user.TokenVersion++
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	return cache.DelUserAuthState(context.Background(), user.ID)
}
