package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/repository"
)

type WatchlistRepository struct {
	db DB
}

func NewWatchlistRepository(db DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func findWatchlist(ctx context.Context, q querier, userID string) (*entity.Watchlist, error) {
	if !validID(userID) {
		return nil, entity.ErrWatchlistNotFound
	}
	w := &entity.Watchlist{}
	err := q.QueryRow(ctx, `SELECT id, user_id, saved_date FROM watch_lists WHERE user_id = $1`, userID).
		Scan(&w.ID, &w.UserID, &w.SavedDate)
	if err != nil {
		if isNoRows(err) {
			return nil, entity.ErrWatchlistNotFound
		}
		return nil, err
	}
	return w, nil
}

// ensureWatchlist returns the user's watchlist, creating it first if needed.
func ensureWatchlist(ctx context.Context, q querier, userID string) (*entity.Watchlist, error) {
	if !validID(userID) {
		return nil, entity.ErrUserNotFound
	}
	_, err := q.Exec(ctx, `INSERT INTO watch_lists (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return findWatchlist(ctx, q, userID)
}

func loadSavedPosts(ctx context.Context, q querier, w *entity.Watchlist) error {
	posts, err := queryPosts(ctx, q, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN watch_list_posts wp ON wp.post_id = p.id
		WHERE wp.watch_list_id = $1
		ORDER BY wp.added_at
	`, w.ID)
	if err != nil {
		return err
	}
	w.SavedPosts = posts
	return nil
}

func (r *WatchlistRepository) Get(ctx context.Context, userID string) (*entity.Watchlist, error) {
	w, err := findWatchlist(ctx, r.db, userID)
	if err != nil {
		if errors.Is(err, entity.ErrWatchlistNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get watchlist: %w", err)
	}
	if err := loadSavedPosts(ctx, r.db, w); err != nil {
		return nil, fmt.Errorf("load saved posts: %w", err)
	}
	return w, nil
}

func (r *WatchlistRepository) GetOrCreate(ctx context.Context, userID string) (*entity.Watchlist, error) {
	var out *entity.Watchlist
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		w, err := ensureWatchlist(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := loadSavedPosts(ctx, tx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, wrapWatchlistErr("get or create watchlist", err)
	}
	return out, nil
}

func (r *WatchlistRepository) AddPost(ctx context.Context, userID, postID string) (*entity.Watchlist, error) {
	var out *entity.Watchlist
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		w, err := ensureWatchlist(ctx, tx, userID)
		if err != nil {
			return err
		}
		ok, err := postExists(ctx, tx, postID)
		if err != nil {
			return err
		}
		if ok {
			_, err := tx.Exec(ctx, `
				INSERT INTO watch_list_posts (watch_list_id, post_id)
				VALUES ($1, $2)
				ON CONFLICT (watch_list_id, post_id) DO NOTHING
			`, w.ID, postID)
			if err != nil {
				return err
			}
		}
		if err := loadSavedPosts(ctx, tx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, wrapWatchlistErr("add to watchlist", err)
	}
	return out, nil
}

func (r *WatchlistRepository) RemovePost(ctx context.Context, userID, postID string) (*entity.Watchlist, error) {
	var out *entity.Watchlist
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		w, err := findWatchlist(ctx, tx, userID)
		if err != nil {
			return err
		}
		if validID(postID) {
			_, err := tx.Exec(ctx, `DELETE FROM watch_list_posts WHERE watch_list_id = $1 AND post_id = $2`, w.ID, postID)
			if err != nil {
				return err
			}
		}
		if err := loadSavedPosts(ctx, tx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, wrapWatchlistErr("remove from watchlist", err)
	}
	return out, nil
}

func wrapWatchlistErr(op string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.WatchlistRepository = (*WatchlistRepository)(nil)
