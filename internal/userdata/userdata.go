// Package userdata mediates authenticated access to a user's bookmarks and
// ratings. Identity is re-resolved on every call and never cached.
//
// Commands (AddBookmark, RemoveBookmark, SetRating) fail with ErrAuthRequired
// when no identity is available. Queries (ListMyBookmarks, MyRating) degrade
// to an empty result instead.
package userdata

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Clark-Hu/now-playing/internal/domain"
	"github.com/Clark-Hu/now-playing/internal/repository"
)

// ErrAuthRequired is returned by commands issued without a signed-in user.
var ErrAuthRequired = errors.New("userdata: authentication required")

// IdentityResolver looks up the signed-in user for a call.
type IdentityResolver interface {
	CurrentUserID(ctx context.Context) (domain.UserID, bool)
}

// BookmarkStore is the persistence contract for bookmarks.
type BookmarkStore interface {
	Add(ctx context.Context, userID domain.UserID, tmdbID int) (bool, error)
	Remove(ctx context.Context, userID domain.UserID, tmdbID int) (bool, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Bookmark, error)
}

// RatingStore is the persistence contract for ratings.
type RatingStore interface {
	Upsert(ctx context.Context, params repository.RatingUpsertParams) (domain.Rating, bool, error)
	Get(ctx context.Context, userID domain.UserID, tmdbID int) (domain.Rating, error)
}

// Service implements the bookmark and rating operations.
type Service struct {
	identity  IdentityResolver
	bookmarks BookmarkStore
	ratings   RatingStore
	logger    *log.Logger
}

// New wires a Service.
func New(identity IdentityResolver, bookmarks BookmarkStore, ratings RatingStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		identity:  identity,
		bookmarks: bookmarks,
		ratings:   ratings,
		logger:    logger,
	}
}

// CurrentUserID returns the signed-in user, if any. It never fails.
func (s *Service) CurrentUserID(ctx context.Context) (domain.UserID, bool) {
	return s.identity.CurrentUserID(ctx)
}

func (s *Service) requireUser(ctx context.Context) (domain.UserID, error) {
	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return domain.UserID{}, ErrAuthRequired
	}
	return userID, nil
}

// AddBookmark bookmarks a movie for the current user. Repeating it is a no-op.
func (s *Service) AddBookmark(ctx context.Context, tmdbID int) error {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return err
	}
	if _, err := s.bookmarks.Add(ctx, userID, tmdbID); err != nil {
		return fmt.Errorf("add bookmark %d: %w", tmdbID, err)
	}
	return nil
}

// RemoveBookmark removes a bookmark. Removing an absent bookmark succeeds.
func (s *Service) RemoveBookmark(ctx context.Context, tmdbID int) error {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return err
	}
	if _, err := s.bookmarks.Remove(ctx, userID, tmdbID); err != nil {
		return fmt.Errorf("remove bookmark %d: %w", tmdbID, err)
	}
	return nil
}

// SetRating stores value as the current user's rating, replacing any earlier one.
func (s *Service) SetRating(ctx context.Context, tmdbID int, value float64) error {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return err
	}
	_, _, err = s.ratings.Upsert(ctx, repository.RatingUpsertParams{
		UserID: userID,
		TMDBID: tmdbID,
		Value:  value,
	})
	if err != nil {
		return fmt.Errorf("set rating %d: %w", tmdbID, err)
	}
	return nil
}

// ListMyBookmarks returns the current user's bookmarks, or an empty slice
// when nobody is signed in.
func (s *Service) ListMyBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return []domain.Bookmark{}, nil
	}
	items, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	if items == nil {
		items = []domain.Bookmark{}
	}
	return items, nil
}

// MyRating returns the current user's rating for a movie. ok is false when
// nobody is signed in or no rating exists yet.
func (s *Service) MyRating(ctx context.Context, tmdbID int) (value float64, ok bool, err error) {
	userID, signedIn := s.identity.CurrentUserID(ctx)
	if !signedIn {
		return 0, false, nil
	}
	rating, err := s.ratings.Get(ctx, userID, tmdbID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get rating %d: %w", tmdbID, err)
	}
	return rating.Value, true, nil
}
