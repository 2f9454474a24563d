package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/malcolmm20/farmlink/internal/config"
	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	jwtCfg := config.JWTConfig{SecretKey: "test-secret-key-for-auth-service-tests", ExpireHours: 1}
	return NewAuthService(repository.NewUserRepository(db), jwtCfg), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user, token, expiresAt, err := svc.Register(RegisterInput{
		Name:     "Jamie Park",
		Username: "JamieP",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if user.Username != "jamiep" {
		t.Fatalf("expected lowercased username, got %q", user.Username)
	}
	if user.Role != constants.RoleCustomer {
		t.Fatalf("expected default customer role, got %q", user.Role)
	}
	if token == "" || expiresAt.Before(time.Now()) {
		t.Fatalf("expected a valid token, got %q expiring %v", token, expiresAt)
	}

	loggedIn, token, _, err := svc.Login("jamiep", "secret123")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Fatalf("unexpected login result: %+v", loggedIn)
	}
	if loggedIn.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp to be set")
	}
}

func TestRegisterRejectsUsernameOfDeletedAccount(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, _, _, err := svc.Register(RegisterInput{Name: "Jamie", Username: "jamiep", Password: "secret123"})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if err := db.Delete(&models.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Name: "Other", Username: "jamiep", Password: "secret123"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken for deleted account, got: %v", err)
	}
}

func TestRegisterRejectsDuplicateAndAdminRole(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	if _, _, _, err := svc.Register(RegisterInput{Name: "Jamie", Username: "jamiep", Password: "secret123"}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Name: "Other", Username: "jamiep", Password: "secret123"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Name: "Evil", Username: "evil", Password: "secret123", Role: constants.RoleAdmin}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected admin self-registration to be rejected, got: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	if _, _, _, err := svc.Register(RegisterInput{Name: "Jamie", Username: "jamiep", Password: "secret123"}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	if _, _, _, err := svc.Login("jamiep", "wrong"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected invalid credential for wrong password, got: %v", err)
	}
	if _, _, _, err := svc.Login("ghost", "secret123"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected invalid credential for unknown user, got: %v", err)
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user, token, _, err := svc.Register(RegisterInput{Name: "Rosa", Username: "greenacres", Password: "secret123", Role: constants.RoleFarmer})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "greenacres" || claims.Role != constants.RoleFarmer {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.ParseToken(token + "tampered"); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestInvalidateSessionsRevokesTokens(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user, token, _, err := svc.Register(RegisterInput{Name: "Jamie", Username: "jamiep", Password: "secret123"})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	state, err := svc.ResolveAuthState(context.Background(), claims)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if state == nil || state.UserID != user.ID {
		t.Fatalf("expected a live auth state, got %+v", state)
	}

	if err := svc.InvalidateSessions(user); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}
	state, err = svc.ResolveAuthState(context.Background(), claims)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if state != nil {
		t.Fatalf("expected stale token to resolve to nil state, got %+v", state)
	}
}
