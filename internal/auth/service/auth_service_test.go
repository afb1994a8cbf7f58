package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mzhdanov/bloglist/internal/auth/service"
	"github.com/mzhdanov/bloglist/internal/common/clock"
	commonerrors "github.com/mzhdanov/bloglist/internal/common/errors"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	userdomain "github.com/mzhdanov/bloglist/internal/user/domain"
	userrepo "github.com/mzhdanov/bloglist/internal/user/repository"
)

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher) {
	t.Helper()
	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	issuer := service.NewTokenIssuer(testSecret, &mockIDGenerator{}, time.Hour, clock.NewMockClock(time.Now()))
	return service.NewAuthService(repo, hasher, issuer, log), repo, hasher
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, hasher := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		if username != "root" {
			t.Errorf("expected lookup for root, got %s", username)
		}
		return userdomain.User{
			ID:           "c2d29867-3d0b-4497-9191-18a9d8ee7830",
			Username:     "root",
			Name:         "Superuser",
			PasswordHash: "hashed_sekret",
		}, nil
	}
	hasher.compareFunc = func(hash string, password string) error {
		if hash != "hashed_sekret" || password != "sekret" {
			return errors.New("password mismatch")
		}
		return nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{Username: "root", Password: "sekret"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Token == "" {
		t.Error("expected token to be set")
	}
	if result.Username != "root" || result.Name != "Superuser" {
		t.Errorf("unexpected login result: %+v", result)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, repo, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}

	_, err := svc.Login(context.Background(), service.LoginInput{Username: "nobody", Password: "sekret"})
	if !errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo, hasher := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{ID: "c2d29867-3d0b-4497-9191-18a9d8ee7830", Username: "root", PasswordHash: "hashed_sekret"}, nil
	}
	hasher.compareFunc = func(hash string, password string) error {
		return errors.New("password mismatch")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{Username: "root", Password: "wrong"})
	if !errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_LookupError(t *testing.T) {
	svc, repo, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{Username: "root", Password: "sekret"})
	if err == nil {
		t.Fatal("expected error")
	}
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}
