package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/mzhdanov/bloglist/internal/blog/domain"
)

var ErrBlogNotFound = errors.New("blog not found")

type Repository interface {
	Create(ctx context.Context, blog domain.Blog) error
	FindByID(ctx context.Context, id domain.ID) (domain.Blog, error)
	FindAllWithOwners(ctx context.Context) ([]domain.BlogWithOwner, error)
	UpdateLikes(ctx context.Context, id domain.ID, likes int) (domain.Blog, error)
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, blog domain.Blog) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO blogs (id, title, author, url, likes, user_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(blog.ID),
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		string(blog.OwnerID),
	)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Blog, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, title, author, url, likes, user_id, created_at FROM blogs WHERE id = $1`,
		string(id),
	)

	var blog domain.Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.OwnerID, &blog.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Blog{}, ErrBlogNotFound
		}
		return domain.Blog{}, fmt.Errorf("failed to find blog by id: %w", err)
	}

	return blog, nil
}

func (r *PgRepository) FindAllWithOwners(ctx context.Context) ([]domain.BlogWithOwner, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at,
		        u.username, u.name
		 FROM blogs b
		 JOIN users u ON u.id = b.user_id
		 ORDER BY b.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]domain.BlogWithOwner, 0)
	for rows.Next() {
		var b domain.BlogWithOwner
		err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.OwnerID, &b.CreatedAt,
			&b.Owner.Username, &b.Owner.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog row: %w", err)
		}
		b.Owner.ID = b.OwnerID
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blog rows: %w", err)
	}

	return blogs, nil
}

func (r *PgRepository) UpdateLikes(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE blogs SET likes = $2 WHERE id = $1
		 RETURNING id, title, author, url, likes, user_id, created_at`,
		string(id),
		likes,
	)

	var blog domain.Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.OwnerID, &blog.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Blog{}, ErrBlogNotFound
		}
		return domain.Blog{}, fmt.Errorf("failed to update blog likes: %w", err)
	}

	return blog, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}
