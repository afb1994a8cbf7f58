package http_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	authhttp "github.com/mzhdanov/bloglist/internal/auth/http"
	"github.com/mzhdanov/bloglist/internal/auth/identity"
	authservice "github.com/mzhdanov/bloglist/internal/auth/service"
	blogdomain "github.com/mzhdanov/bloglist/internal/blog/domain"
	bloghttp "github.com/mzhdanov/bloglist/internal/blog/http"
	blogrepo "github.com/mzhdanov/bloglist/internal/blog/repository"
	blogservice "github.com/mzhdanov/bloglist/internal/blog/service"
	"github.com/mzhdanov/bloglist/internal/common/clock"
	commoncrypto "github.com/mzhdanov/bloglist/internal/common/crypto"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	userdomain "github.com/mzhdanov/bloglist/internal/user/domain"
	userhttp "github.com/mzhdanov/bloglist/internal/user/http"
	userrepo "github.com/mzhdanov/bloglist/internal/user/repository"
	userservice "github.com/mzhdanov/bloglist/internal/user/service"
)

const testSecret = "test-secret-key-0123456789abcdef"

type memUserRepo struct {
	mu    sync.Mutex
	users map[userdomain.ID]userdomain.User
	blogs *memBlogRepo
}

func newMemUserRepo(blogs *memBlogRepo) *memUserRepo {
	return &memUserRepo{
		users: make(map[userdomain.ID]userdomain.User),
		blogs: blogs,
	}
}

func (r *memUserRepo) Create(ctx context.Context, user userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return userrepo.ErrUsernameAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *memUserRepo) FindAllWithBlogs(ctx context.Context) ([]userdomain.UserWithBlogs, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]userdomain.UserWithBlogs, 0, len(r.users))
	for _, u := range r.users {
		entry := userdomain.UserWithBlogs{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Blogs:    []userdomain.BlogRef{},
		}
		if r.blogs != nil {
			for _, b := range r.blogs.snapshot() {
				if b.OwnerID.Equals(u.ID) {
					entry.Blogs = append(entry.Blogs, userdomain.BlogRef{
						ID:     string(b.ID),
						Title:  b.Title,
						Author: b.Author,
						URL:    b.URL,
						Likes:  b.Likes,
					})
				}
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

type memBlogRepo struct {
	mu    sync.Mutex
	blogs map[blogdomain.ID]blogdomain.Blog
	users *memUserRepo
}

func newMemBlogRepo() *memBlogRepo {
	return &memBlogRepo{blogs: make(map[blogdomain.ID]blogdomain.Blog)}
}

func (r *memBlogRepo) snapshot() []blogdomain.Blog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]blogdomain.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		out = append(out, b)
	}
	return out
}

func (r *memBlogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blogs)
}

func (r *memBlogRepo) Create(ctx context.Context, blog blogdomain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blogs[blog.ID] = blog
	return nil
}

func (r *memBlogRepo) FindByID(ctx context.Context, id blogdomain.ID) (blogdomain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blogs[id]; ok {
		return b, nil
	}
	return blogdomain.Blog{}, blogrepo.ErrBlogNotFound
}

func (r *memBlogRepo) FindAllWithOwners(ctx context.Context) ([]blogdomain.BlogWithOwner, error) {
	out := make([]blogdomain.BlogWithOwner, 0, len(r.blogs))
	for _, b := range r.snapshot() {
		entry := blogdomain.BlogWithOwner{Blog: b}
		if r.users != nil {
			if u, err := r.users.FindByID(ctx, b.OwnerID); err == nil {
				entry.Owner = blogdomain.Owner{ID: u.ID, Username: u.Username, Name: u.Name}
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *memBlogRepo) UpdateLikes(ctx context.Context, id blogdomain.ID, likes int) (blogdomain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return blogdomain.Blog{}, blogrepo.ErrBlogNotFound
	}
	b.Likes = likes
	r.blogs[id] = b
	return b, nil
}

func (r *memBlogRepo) Delete(ctx context.Context, id blogdomain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return blogrepo.ErrBlogNotFound
	}
	delete(r.blogs, id)
	return nil
}

type testAPI struct {
	mux    *http.ServeMux
	users  *memUserRepo
	blogs  *memBlogRepo
	issuer *authservice.TokenIssuer
}

// setupAPI wires the full route surface against in-memory stores so tests can
// drive the API exactly the way a client would.
func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	blogs := newMemBlogRepo()
	users := newMemUserRepo(blogs)
	blogs.users = users

	hasher := &commoncrypto.BcryptHasher{}
	idGen := commoncrypto.NewUUIDGenerator()
	issuer := authservice.NewTokenIssuer(testSecret, idGen, time.Hour, clock.NewRealClock())

	userSvc := userservice.NewService(users, hasher, idGen, log)
	authSvc := authservice.NewAuthService(users, hasher, issuer, log)
	blogSvc := blogservice.NewService(blogs, idGen, nil, log)
	resolver := identity.NewResolver(testSecret, users, log)

	timeout := 5 * time.Second
	mux := http.NewServeMux()
	userhttp.NewHandler(userSvc, timeout, log).Register(mux)
	authhttp.NewHandler(authSvc, timeout, log).Register(mux)
	bloghttp.NewHandler(blogSvc, timeout, log).Register(mux, resolver)

	return &testAPI{mux: mux, users: users, blogs: blogs, issuer: issuer}
}

// seedUser stores a user directly and returns it with a valid token.
func (a *testAPI) seedUser(t *testing.T, username, name string) (userdomain.User, string) {
	t.Helper()
	hasher := &commoncrypto.BcryptHasher{}
	hash, err := hasher.Hash("sekret")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	id, _ := commoncrypto.NewUUIDGenerator().NewID()
	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     username,
		Name:         name,
		PasswordHash: hash,
	}
	if err := a.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	token, err := a.issuer.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return user, token
}

func (a *testAPI) seedBlog(t *testing.T, owner userdomain.User, title string) blogdomain.Blog {
	t.Helper()
	id, _ := commoncrypto.NewUUIDGenerator().NewID()
	blog := blogdomain.Blog{
		ID:      blogdomain.ID(id),
		Title:   title,
		Author:  owner.Name,
		URL:     "https://example.com/" + title,
		Likes:   0,
		OwnerID: owner.ID,
	}
	if err := a.blogs.Create(context.Background(), blog); err != nil {
		t.Fatalf("failed to seed blog: %v", err)
	}
	return blog
}
