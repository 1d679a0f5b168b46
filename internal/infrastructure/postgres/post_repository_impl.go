package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/repository"
)

const postColumns = `p.id, p.title, p.description, p.image_link, p.author_id, p.created_at, p.updated_at`

type PostRepository struct {
	db DB
}

func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row, p *entity.Post) error {
	return row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageLink, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
}

// queryPosts runs a post query and inlines each post's comments.
func queryPosts(ctx context.Context, q querier, sql string, args ...any) ([]entity.Post, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]entity.Post, 0)
	for rows.Next() {
		var p entity.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachComments(ctx, q, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func attachComments(ctx context.Context, q querier, posts []entity.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
		posts[i].Comments = make([]entity.Comment, 0)
	}

	rows, err := q.Query(ctx, `
		SELECT id, comment_text, post_id, author_id, created_at
		FROM comments
		WHERE post_id = ANY($1::uuid[])
		ORDER BY created_at
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.PostID, &c.AuthorID, &c.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[c.PostID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	return rows.Err()
}

func postExists(ctx context.Context, q querier, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	posts, err := queryPosts(ctx, r.db, `SELECT `+postColumns+` FROM posts p ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]entity.Post, error) {
	if !validID(authorID) {
		return []entity.Post{}, nil
	}
	posts, err := queryPosts(ctx, r.db, `SELECT `+postColumns+` FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if !validID(id) {
		return nil, entity.ErrPostNotFound
	}
	p := entity.Post{}
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id)
	if err := scanPost(row, &p); err != nil {
		if isNoRows(err) {
			return nil, entity.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	posts := []entity.Post{p}
	if err := attachComments(ctx, r.db, posts); err != nil {
		return nil, fmt.Errorf("get post comments: %w", err)
	}
	return &posts[0], nil
}

// Create inserts the post. A title collision is reported as
// entity.ErrPostTitleTaken and leaves no row behind.
func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (title, description, image_link, author_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (title) DO NOTHING
		RETURNING id, created_at, updated_at
	`, p.Title, p.Description, p.ImageLink, p.AuthorID)

	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	switch {
	case err == nil:
		p.Comments = []entity.Comment{}
		return nil
	case errors.Is(err, pgx.ErrNoRows), pgCode(err) == codeUniqueViolation:
		return entity.ErrPostTitleTaken
	case pgCode(err) == codeForeignKeyViolation, pgCode(err) == codeInvalidText:
		return entity.ErrUserNotFound
	default:
		return fmt.Errorf("create post: %w", err)
	}
}

// Update applies only the supplied fields and only when authorID owns the
// post. A supplied null clears description or image_link. It reports whether
// a row matched.
func (r *PostRepository) Update(ctx context.Context, id, authorID string, upd entity.PostUpdate) (bool, error) {
	if !validID(id) || !validID(authorID) {
		return false, nil
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title = COALESCE($3, title),
		    description = CASE WHEN $4::boolean THEN $5::text ELSE description END,
		    image_link = CASE WHEN $6::boolean THEN $7::text ELSE image_link END,
		    updated_at = now()
		WHERE id = $1 AND author_id = $2
	`, id, authorID, upd.Title,
		upd.Description.Set, upd.Description.Value,
		upd.ImageLink.Set, upd.ImageLink.Value)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return false, entity.ErrPostTitleTaken
		}
		return false, fmt.Errorf("update post: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the post when authorID owns it. Comments and like/watchlist
// memberships cascade.
func (r *PostRepository) Delete(ctx context.Context, id, authorID string) (bool, error) {
	if !validID(id) || !validID(authorID) {
		return false, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
