package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/mzhdanov/bloglist/internal/user/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindAllWithBlogs(ctx context.Context) ([]domain.UserWithBlogs, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, name, password_hash) VALUES ($1, $2, $3, $4)`,
		string(user.ID),
		user.Username,
		user.Name,
		user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, name, password_hash, created_at FROM users WHERE username = $1`,
		username,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by username: %w", err)
	}

	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, name, password_hash, created_at FROM users WHERE id = $1`,
		string(id),
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by id: %w", err)
	}

	return user, nil
}

func (r *PgRepository) FindAllWithBlogs(ctx context.Context) ([]domain.UserWithBlogs, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT u.id, u.username, u.name,
		        b.id, b.title, b.author, b.url, b.likes
		 FROM users u
		 LEFT JOIN blogs b ON b.user_id = u.id
		 ORDER BY u.created_at, b.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.UserWithBlogs, 0)
	index := make(map[domain.ID]int)

	for rows.Next() {
		var (
			id       domain.ID
			username string
			name     string
			blogID   *string
			title    *string
			author   *string
			url      *string
			likes    *int
		)
		if err := rows.Scan(&id, &username, &name, &blogID, &title, &author, &url, &likes); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}

		i, seen := index[id]
		if !seen {
			users = append(users, domain.UserWithBlogs{
				ID:       id,
				Username: username,
				Name:     name,
				Blogs:    []domain.BlogRef{},
			})
			i = len(users) - 1
			index[id] = i
		}

		if blogID != nil {
			users[i].Blogs = append(users[i].Blogs, domain.BlogRef{
				ID:     *blogID,
				Title:  *title,
				Author: *author,
				URL:    *url,
				Likes:  *likes,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}
