package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stagelight/boxoffice/internal/config"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "auth-service-test-secret-key-0123456789"
	cfg.JWT.ExpireHours = 1

	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func seedAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}
	return admin
}

func TestLoginAndParseJWT(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seeded := seedAdmin(t, svc, db, "frontdesk", "correct-horse-1")

	admin, token, expiresAt, err := svc.Login("frontdesk", "correct-horse-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if admin.ID != seeded.ID {
		t.Fatalf("admin id want %d got %d", seeded.ID, admin.ID)
	}
	if token == "" {
		t.Fatalf("token should not be empty")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token expiry should be in the future, got %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != seeded.ID || claims.Username != "frontdesk" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "frontdesk", "correct-horse-1")

	if _, _, _, err := svc.Login("frontdesk", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "correct-horse-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials got %v", err)
	}
}

func TestParseJWTRejectsTampering(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seeded := seedAdmin(t, svc, db, "frontdesk", "correct-horse-1")

	_, token, _, err := svc.Login("frontdesk", "correct-horse-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.ParseJWT(token + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("tampered token: want ErrTokenInvalid got %v", err)
	}

	other := &config.Config{}
	other.JWT.SecretKey = "a-completely-different-secret-key-value"
	other.JWT.ExpireHours = 1
	otherSvc := NewAuthService(other, repository.NewAdminRepository(db))
	otherToken, _, err := otherSvc.GenerateJWT(seeded)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := svc.ParseJWT(otherToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong key token: want ErrTokenInvalid got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seeded := seedAdmin(t, svc, db, "frontdesk", "correct-horse-1")

	if err := svc.ChangePassword(seeded.ID, "wrong", "new-password-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password: want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(seeded.ID, "correct-horse-1", "short"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("short new password: want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(seeded.ID, "correct-horse-1", "new-password-123"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("frontdesk", "new-password-123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
