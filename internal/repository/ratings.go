package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/now-playing/internal/domain"
)

// RatingsRepository provides helpers for per-user movie ratings.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// RatingUpsertParams captures the payload required to upsert a rating.
type RatingUpsertParams struct {
	UserID domain.UserID
	TMDBID int
	Value  float64
}

// Upsert inserts or replaces a rating and indicates whether it was newly created.
func (r *RatingsRepository) Upsert(ctx context.Context, params RatingUpsertParams) (domain.Rating, bool, error) {
	const query = `
        INSERT INTO ratings (user_id, tmdb_id, rating)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, tmdb_id)
        DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
        RETURNING user_id, tmdb_id, rating, created_at, updated_at, (xmax = 0) AS inserted
    `

	var (
		owner    uuid.UUID
		rating   domain.Rating
		inserted bool
	)
	err := r.pool.QueryRow(ctx, query, params.UserID.UUID(), params.TMDBID, params.Value).Scan(
		&owner,
		&rating.TMDBID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Rating{}, false, err
	}
	rating.UserID = domain.UserID(owner)
	return rating, inserted, nil
}

// Get retrieves the rating for a specific user/movie pair.
func (r *RatingsRepository) Get(ctx context.Context, userID domain.UserID, tmdbID int) (domain.Rating, error) {
	const query = `
        SELECT user_id, tmdb_id, rating, created_at, updated_at
        FROM ratings
        WHERE user_id = $1 AND tmdb_id = $2
    `
	var (
		owner  uuid.UUID
		rating domain.Rating
	)
	err := r.pool.QueryRow(ctx, query, userID.UUID(), tmdbID).Scan(
		&owner,
		&rating.TMDBID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	rating.UserID = domain.UserID(owner)
	return rating, nil
}
