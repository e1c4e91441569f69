package history

import (
	"context"

	"kontra/pkg/domain"
)

// Store persists check history and favorites.
type Store interface {
	Add(ctx context.Context, e Entry) error
	List(ctx context.Context, userID domain.UserID, limit int) ([]Entry, error)
	UserStats(ctx context.Context, userID domain.UserID) (UserStats, error)
	GlobalStats(ctx context.Context) (GlobalStats, error)

	AddFavorite(ctx context.Context, f Favorite) error
	RemoveFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID) error
	ListFavorites(ctx context.Context, userID domain.UserID) ([]Favorite, error)
	IsFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID) (bool, error)
}
