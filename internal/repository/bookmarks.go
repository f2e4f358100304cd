package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/now-playing/internal/domain"
)

// BookmarksRepository persists (user, movie) bookmark rows.
type BookmarksRepository struct {
	pool *pgxpool.Pool
}

// Add inserts a bookmark if absent and reports whether a row was created.
// Repeated calls for the same pair leave exactly one row.
func (r *BookmarksRepository) Add(ctx context.Context, userID domain.UserID, tmdbID int) (bool, error) {
	const query = `
        INSERT INTO bookmarks (user_id, tmdb_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, tmdb_id) DO NOTHING
    `
	tag, err := r.pool.Exec(ctx, query, userID.UUID(), tmdbID)
	if err != nil {
		return false, fmt.Errorf("insert bookmark: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Remove deletes a bookmark and reports whether one existed.
func (r *BookmarksRepository) Remove(ctx context.Context, userID domain.UserID, tmdbID int) (bool, error) {
	const query = `DELETE FROM bookmarks WHERE user_id = $1 AND tmdb_id = $2`
	tag, err := r.pool.Exec(ctx, query, userID.UUID(), tmdbID)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's bookmarks, newest first.
func (r *BookmarksRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Bookmark, error) {
	const query = `
        SELECT user_id, tmdb_id, created_at
        FROM bookmarks
        WHERE user_id = $1
        ORDER BY created_at DESC, tmdb_id
    `
	rows, err := r.pool.Query(ctx, query, userID.UUID())
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Bookmark, 0)
	for rows.Next() {
		var (
			owner    uuid.UUID
			bookmark domain.Bookmark
		)
		if err := rows.Scan(&owner, &bookmark.TMDBID, &bookmark.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmark.UserID = domain.UserID(owner)
		results = append(results, bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
