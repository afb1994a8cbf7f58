package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/mzhdanov/bloglist/internal/common/crypto"
	commonerrors "github.com/mzhdanov/bloglist/internal/common/errors"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	"github.com/mzhdanov/bloglist/internal/user/domain"
	"github.com/mzhdanov/bloglist/internal/user/repository"
)

type RegisterInput struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=3"`
	Name     string `validate:"required"`
}

type Service struct {
	repo        repository.Repository
	hasher      crypto.PasswordHasher
	idGenerator crypto.IDGenerator
	validate    *validator.Validate
	log         *logger.Logger
}

func NewService(
	repo repository.Repository,
	hasher crypto.PasswordHasher,
	idGenerator crypto.IDGenerator,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		validate:    validator.New(),
		log:         log,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := s.validateInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: username already exists")
			return domain.User{}, commonerrors.ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

func (s *Service) List(ctx context.Context) ([]domain.UserWithBlogs, error) {
	users, err := s.repo.FindAllWithBlogs(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_users_failed",
		}).Errorf("list users failed: %v", err)
		return nil, commonerrors.ErrInternalError.WithCause(err)
	}
	return users, nil
}

// validateInput maps validator results onto the API's two registration
// messages: missing fields win over short fields.
func (s *Service) validateInput(input RegisterInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return commonerrors.ErrInternalError.WithCause(err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return commonerrors.ErrUserFieldsRequired
		}
	}
	return commonerrors.ErrUserFieldsTooShort
}
