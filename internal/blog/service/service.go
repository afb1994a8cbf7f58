package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/mzhdanov/bloglist/internal/blog/domain"
	"github.com/mzhdanov/bloglist/internal/blog/repository"
	"github.com/mzhdanov/bloglist/internal/common/crypto"
	commonerrors "github.com/mzhdanov/bloglist/internal/common/errors"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	"github.com/mzhdanov/bloglist/internal/observability/metrics"
	userdomain "github.com/mzhdanov/bloglist/internal/user/domain"
)

// EventSink receives blog lifecycle events. The stream hub implements it;
// a no-op sink is fine for callers that do not broadcast.
type EventSink interface {
	BlogCreated(blog domain.Blog)
	BlogDeleted(id domain.ID)
}

type NopSink struct{}

func (NopSink) BlogCreated(domain.Blog) {}
func (NopSink) BlogDeleted(domain.ID)   {}

// CreateInput field order matters: validation reports the first failing field,
// so a request missing both title and url is answered with the title error.
type CreateInput struct {
	Title  string `validate:"required"`
	URL    string `validate:"required"`
	Author string
	Likes  *int `validate:"omitempty,gte=0"`
}

type Service struct {
	repo        repository.Repository
	idGenerator crypto.IDGenerator
	validate    *validator.Validate
	events      EventSink
	log         *logger.Logger
}

func NewService(
	repo repository.Repository,
	idGenerator crypto.IDGenerator,
	events EventSink,
	log *logger.Logger,
) *Service {
	if events == nil {
		events = NopSink{}
	}
	return &Service{
		repo:        repo,
		idGenerator: idGenerator,
		validate:    validator.New(),
		events:      events,
		log:         log,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.BlogWithOwner, error) {
	blogs, err := s.repo.FindAllWithOwners(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_blogs_failed",
		}).Errorf("list blogs failed: %v", err)
		return nil, commonerrors.ErrInternalError.WithCause(err)
	}
	return blogs, nil
}

// Create persists a blog owned by the resolved identity. The owner reference
// is set here once and no API path ever reassigns it.
func (s *Service) Create(ctx context.Context, owner userdomain.User, input CreateInput) (domain.Blog, error) {
	if err := s.validateInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(owner.ID),
			"action":  "create_blog_validation_failed",
		}).Warnf("create blog validation failed: %v", err)
		return domain.Blog{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(owner.ID),
			"action":  "create_blog_id_generation_failed",
		}).Errorf("create blog failed: id generation error: %v", err)
		return domain.Blog{}, commonerrors.ErrInternalError.WithCause(err)
	}

	likes := 0
	if input.Likes != nil {
		likes = *input.Likes
	}

	blog := domain.Blog{
		ID:      domain.ID(id),
		Title:   input.Title,
		Author:  input.Author,
		URL:     input.URL,
		Likes:   likes,
		OwnerID: owner.ID,
	}

	if err := s.repo.Create(ctx, blog); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(owner.ID),
			"action":  "create_blog_failed",
		}).Errorf("create blog failed: %v", err)
		return domain.Blog{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.BlogsCreatedTotal.Inc()
	s.events.BlogCreated(blog)

	s.log.WithFields(ctx, logger.Fields{
		"blog_id": string(blog.ID),
		"user_id": string(owner.ID),
		"action":  "create_blog_success",
	}).Info("blog created")

	return blog, nil
}

// Delete removes a blog after the ownership check. A missing blog is reported
// as not-found before any ownership comparison happens, so callers can never
// probe ownership of nonexistent identifiers.
func (s *Service) Delete(ctx context.Context, actor userdomain.User, id domain.ID) error {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return commonerrors.ErrBlogNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"blog_id": string(id),
			"action":  "delete_blog_lookup_failed",
		}).Errorf("delete blog failed: %v", err)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	if !blog.OwnerID.Equals(actor.ID) {
		s.log.WithFields(ctx, logger.Fields{
			"blog_id":  string(id),
			"owner_id": string(blog.OwnerID),
			"actor_id": string(actor.ID),
			"action":   "delete_blog_forbidden",
		}).Warn("delete blog rejected: not the owner")
		return commonerrors.ErrNotBlogOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return commonerrors.ErrBlogNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"blog_id": string(id),
			"action":  "delete_blog_failed",
		}).Errorf("delete blog failed: %v", err)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.BlogsDeletedTotal.Inc()
	s.events.BlogDeleted(id)

	s.log.WithFields(ctx, logger.Fields{
		"blog_id": string(id),
		"user_id": string(actor.ID),
		"action":  "delete_blog_success",
	}).Info("blog deleted")

	return nil
}

// UpdateLikes is deliberately open to unauthenticated callers: the like count
// is treated as a public upvote signal, unlike deletion.
func (s *Service) UpdateLikes(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
	if likes < 0 {
		return domain.Blog{}, commonerrors.ErrInvalidLikes
	}

	blog, err := s.repo.UpdateLikes(ctx, id, likes)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return domain.Blog{}, commonerrors.ErrBlogNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"blog_id": string(id),
			"action":  "update_likes_failed",
		}).Errorf("update likes failed: %v", err)
		return domain.Blog{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.BlogLikesUpdatedTotal.Inc()
	return blog, nil
}

func (s *Service) validateInput(input CreateInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return commonerrors.ErrInternalError.WithCause(err)
	}

	switch fieldErrs[0].Field() {
	case "Title":
		return commonerrors.ErrTitleRequired
	case "URL":
		return commonerrors.ErrURLRequired
	default:
		return commonerrors.ErrInvalidLikes
	}
}
