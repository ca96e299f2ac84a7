package catalog

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/gamewishlist-backend/pkg/errors"
	"github.com/angelmondragon/gamewishlist-backend/pkg/freetogame"
)

// SearchParams filters a catalog search. Empty fields are ignored.
type SearchParams struct {
	Title    string
	Platform string
	Genre    string
}

// SearchService proxies catalog searches.
type SearchService interface {
	Search(ctx context.Context, params SearchParams) ([]freetogame.GameSummary, error)
}

type searchService struct {
	client Client
}

// NewSearchService wires the search service to a catalog client.
func NewSearchService(client Client) (SearchService, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog client is required")
	}
	return &searchService{client: client}, nil
}

// Search forwards platform and genre to the catalog and filters titles locally.
func (s *searchService) Search(ctx context.Context, params SearchParams) ([]freetogame.GameSummary, error) {
	games, err := s.client.SearchGames(ctx, strings.TrimSpace(params.Platform), strings.TrimSpace(params.Genre))
	if err != nil {
		return nil, err
	}
	return FilterByTitle(games, params.Title), nil
}

// FilterByTitle keeps games whose title contains needle, ignoring case.
func FilterByTitle(games []freetogame.GameSummary, needle string) []freetogame.GameSummary {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		if games == nil {
			return []freetogame.GameSummary{}
		}
		return games
	}

	filtered := make([]freetogame.GameSummary, 0, len(games))
	for _, game := range games {
		if strings.Contains(strings.ToLower(game.Title), needle) {
			filtered = append(filtered, game)
		}
	}
	return filtered
}
