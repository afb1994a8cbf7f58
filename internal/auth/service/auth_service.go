package service

import (
	"context"
	"errors"

	commoncrypto "github.com/mzhdanov/bloglist/internal/common/crypto"
	commonerrors "github.com/mzhdanov/bloglist/internal/common/errors"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	userrepo "github.com/mzhdanov/bloglist/internal/user/repository"
)

type AuthService struct {
	users  userrepo.Repository
	hasher commoncrypto.PasswordHasher
	issuer *TokenIssuer
	log    *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	issuer *TokenIssuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Token    string
	Username string
	Name     string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_unknown_user",
			}).Warn("login failed: unknown user")
			return LoginResult{}, commonerrors.ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_lookup_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_wrong_password",
		}).Warn("login failed: wrong password")
		return LoginResult{}, commonerrors.ErrInvalidCredentials
	}

	token, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}
