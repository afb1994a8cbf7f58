package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mzhdanov/bloglist/internal/auth/identity"
	"github.com/mzhdanov/bloglist/internal/blog/domain"
	"github.com/mzhdanov/bloglist/internal/blog/service"
	commonerrors "github.com/mzhdanov/bloglist/internal/common/errors"
	commonhttp "github.com/mzhdanov/bloglist/internal/common/http"
	"github.com/mzhdanov/bloglist/internal/common/logger"
)

type createBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

type updateLikesRequest struct {
	Likes *int `json:"likes"`
}

type ownerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type blogResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	User   string `json:"user"`
}

// The listing populates the owner; single-blog responses carry the owner id,
// matching the asymmetry of the original API.
type blogWithOwnerResponse struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Author string        `json:"author"`
	URL    string        `json:"url"`
	Likes  int           `json:"likes"`
	User   ownerResponse `json:"user"`
}

type Handler struct {
	blogs   *service.Service
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(blogs *service.Service, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		blogs:   blogs,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}
}

// Register mounts the blog routes. Create and delete are gated behind the
// identity resolver; the listing and the like-count update are public.
func (h *Handler) Register(mux *http.ServeMux, resolver *identity.Resolver) {
	create := resolver.RequireUser(http.HandlerFunc(h.create))
	del := resolver.RequireUser(http.HandlerFunc(h.delete))

	mux.HandleFunc("/api/blogs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			create.ServeHTTP(w, r)
		default:
			commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		}
	})

	mux.HandleFunc("/api/blogs/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			del.ServeHTTP(w, r)
		case http.MethodPut:
			h.updateLikes(w, r)
		default:
			commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	blogs, err := h.blogs.List(ctx)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	out := make([]blogWithOwnerResponse, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, blogWithOwnerResponse{
			ID:     string(b.ID),
			Title:  b.Title,
			Author: b.Author,
			URL:    b.URL,
			Likes:  b.Likes,
			User: ownerResponse{
				ID:       string(b.Owner.ID),
				Username: b.Owner.Username,
				Name:     b.Owner.Name,
			},
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrMissingAuthorization)
		return
	}

	var req createBlogRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create blog failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	blog, err := h.blogs.Create(ctx, user, service.CreateInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toBlogResponse(blog))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrMissingAuthorization)
		return
	}

	id, err := blogIDFromPath(r.URL.Path)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.blogs.Delete(ctx, user, id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateLikes(w http.ResponseWriter, r *http.Request) {
	id, err := blogIDFromPath(r.URL.Path)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	var req updateLikesRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update likes failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}
	if req.Likes == nil {
		h.errors.HandleError(w, r, commonerrors.ErrInvalidLikes)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	blog, err := h.blogs.UpdateLikes(ctx, id, *req.Likes)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toBlogResponse(blog))
}

func blogIDFromPath(path string) (domain.ID, error) {
	raw := strings.TrimPrefix(path, "/api/blogs/")
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", commonerrors.ErrMalformedID
	}
	return domain.ID(parsed.String()), nil
}

func toBlogResponse(b domain.Blog) blogResponse {
	return blogResponse{
		ID:     string(b.ID),
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
		User:   string(b.OwnerID),
	}
}
