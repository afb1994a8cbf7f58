package http

import (
	"context"
	"net/http"
	"time"

	commonhttp "github.com/mzhdanov/bloglist/internal/common/http"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	"github.com/mzhdanov/bloglist/internal/user/domain"
	"github.com/mzhdanov/bloglist/internal/user/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type blogRefResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

type userWithBlogsResponse struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Name     string            `json:"name"`
	Blogs    []blogRefResponse `json:"blogs"`
}

type Handler struct {
	users   *service.Service
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(users *service.Service, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		users:   users,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", h.handleUsers)
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create user failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.users.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, userResponse{
		ID:       string(user.ID),
		Username: user.Username,
		Name:     user.Name,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserListResponse(users))
}

func toUserListResponse(users []domain.UserWithBlogs) []userWithBlogsResponse {
	out := make([]userWithBlogsResponse, 0, len(users))
	for _, u := range users {
		blogs := make([]blogRefResponse, 0, len(u.Blogs))
		for _, b := range u.Blogs {
			blogs = append(blogs, blogRefResponse{
				ID:     b.ID,
				Title:  b.Title,
				Author: b.Author,
				URL:    b.URL,
				Likes:  b.Likes,
			})
		}
		out = append(out, userWithBlogsResponse{
			ID:       string(u.ID),
			Username: u.Username,
			Name:     u.Name,
			Blogs:    blogs,
		})
	}
	return out
}
