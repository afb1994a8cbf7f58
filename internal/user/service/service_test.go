package service_test

import (
	"context"
	"errors"
	"testing"

	commonerrors "github.com/mzhdanov/bloglist/internal/common/errors"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	"github.com/mzhdanov/bloglist/internal/user/domain"
	"github.com/mzhdanov/bloglist/internal/user/repository"
	"github.com/mzhdanov/bloglist/internal/user/service"
)

type mockRepo struct {
	createFunc           func(ctx context.Context, user domain.User) error
	findByUsernameFunc   func(ctx context.Context, username string) (domain.User, error)
	findByIDFunc         func(ctx context.Context, id domain.ID) (domain.User, error)
	findAllWithBlogsFunc func(ctx context.Context) ([]domain.UserWithBlogs, error)
}

func (m *mockRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockRepo) FindAllWithBlogs(ctx context.Context) ([]domain.UserWithBlogs, error) {
	if m.findAllWithBlogsFunc != nil {
		return m.findAllWithBlogsFunc(ctx)
	}
	return nil, nil
}

type mockHasher struct {
	hashFunc func(password string) (string, error)
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "f47ac10b-58cc-4372-a567-0e02b2c3d479", nil
}

func setupService(t *testing.T) (*service.Service, *mockRepo) {
	t.Helper()
	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	repo := &mockRepo{}
	return service.NewService(repo, &mockHasher{}, &mockIDGenerator{}, log), repo
}

func TestRegister_Success(t *testing.T) {
	svc, repo := setupService(t)

	var created domain.User
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		created = user
		return nil
	}

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "root",
		Password: "sekret",
		Name:     "Superuser",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if created.PasswordHash != "hashed_sekret" {
		t.Errorf("expected hashed password to be stored, got %q", created.PasswordHash)
	}
	if created.Username != "root" || created.Name != "Superuser" {
		t.Errorf("unexpected stored user: %+v", created)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, repo := setupService(t)

	createCalls := 0
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		createCalls++
		return nil
	}

	inputs := []service.RegisterInput{
		{Password: "sekret", Name: "No Username"},
		{Username: "root", Name: "No Password"},
		{Username: "root", Password: "sekret"},
	}
	for _, input := range inputs {
		_, err := svc.Register(context.Background(), input)
		if !errors.Is(err, commonerrors.ErrUserFieldsRequired) {
			t.Errorf("input %+v: expected ErrUserFieldsRequired, got %v", input, err)
		}
	}
	if createCalls != 0 {
		t.Errorf("expected no create calls, got %d", createCalls)
	}
}

func TestRegister_TooShortFields(t *testing.T) {
	svc, _ := setupService(t)

	inputs := []service.RegisterInput{
		{Username: "ab", Password: "sekret", Name: "Short Username"},
		{Username: "root", Password: "pw", Name: "Short Password"},
	}
	for _, input := range inputs {
		_, err := svc.Register(context.Background(), input)
		if !errors.Is(err, commonerrors.ErrUserFieldsTooShort) {
			t.Errorf("input %+v: expected ErrUserFieldsTooShort, got %v", input, err)
		}
	}
}

func TestRegister_MissingWinsOverShort(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "ab",
		Password: "sekret",
	})
	if !errors.Is(err, commonerrors.ErrUserFieldsRequired) {
		t.Errorf("expected ErrUserFieldsRequired, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, repo := setupService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) error {
		return repository.ErrUsernameAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "root",
		Password: "sekret",
		Name:     "Superuser",
	})
	if !errors.Is(err, commonerrors.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.HTTPStatus() != 400 {
		t.Errorf("expected status 400 for duplicate username, got %d", domainErr.HTTPStatus())
	}
	if domainErr.Message() != "username must be unique" {
		t.Errorf("unexpected message: %q", domainErr.Message())
	}
}

func TestList_IncludesBlogs(t *testing.T) {
	svc, repo := setupService(t)

	repo.findAllWithBlogsFunc = func(ctx context.Context) ([]domain.UserWithBlogs, error) {
		return []domain.UserWithBlogs{
			{
				ID:       "c2d29867-3d0b-4497-9191-18a9d8ee7830",
				Username: "root",
				Name:     "Superuser",
				Blogs: []domain.BlogRef{
					{ID: "f47ac10b-58cc-4372-a567-0e02b2c3d479", Title: "Go proverbs", URL: "https://go.dev", Likes: 3},
				},
			},
		}, nil
	}

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(users) != 1 || len(users[0].Blogs) != 1 {
		t.Fatalf("unexpected listing: %+v", users)
	}
	if users[0].Blogs[0].Title != "Go proverbs" {
		t.Errorf("unexpected blog ref: %+v", users[0].Blogs[0])
	}
}

func TestList_RepositoryError(t *testing.T) {
	svc, repo := setupService(t)

	repo.findAllWithBlogsFunc = func(ctx context.Context) ([]domain.UserWithBlogs, error) {
		return nil, errors.New("connection refused")
	}

	_, err := svc.List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}
