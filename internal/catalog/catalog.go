// Package catalog searches the external game catalog and imports its games
// into the wishlist.
package catalog

import (
	"context"

	"github.com/angelmondragon/gamewishlist-backend/pkg/freetogame"
)

// Client is the subset of the catalog client used here.
type Client interface {
	SearchGames(ctx context.Context, platform, genre string) ([]freetogame.GameSummary, error)
	GetGameByID(ctx context.Context, id int) (*freetogame.GameDetail, error)
}
