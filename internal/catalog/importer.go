package catalog

import (
	"context"

	"github.com/angelmondragon/gamewishlist-backend/internal/wishlist"
	pkgerrors "github.com/angelmondragon/gamewishlist-backend/pkg/errors"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
)

// GameLookup is the wishlist storage check used before importing.
type GameLookup interface {
	ExistsByGameURL(ctx context.Context, gameURL string) (bool, error)
}

// ImporterParams groups dependencies for the importer.
type ImporterParams struct {
	Client   Client
	Wishlist wishlist.Service
	Lookup   GameLookup
	Logger   *logger.Logger
}

// Importer copies catalog games into the wishlist.
type Importer interface {
	ImportFromCatalog(ctx context.Context, externalID int) (*wishlist.ItemDTO, error)
}

type importer struct {
	client   Client
	wishlist wishlist.Service
	lookup   GameLookup
	logg     *logger.Logger
}

// NewImporter builds an importer with the required dependencies.
func NewImporter(params ImporterParams) (Importer, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog client is required")
	}
	if params.Wishlist == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist service is required")
	}
	if params.Lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist lookup is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &importer{
		client:   params.Client,
		wishlist: params.Wishlist,
		lookup:   params.Lookup,
		logg:     logg,
	}, nil
}

// ImportFromCatalog fetches externalID and stores it through the regular
// wishlist create path. Catalog errors are returned unchanged.
func (i *importer) ImportFromCatalog(ctx context.Context, externalID int) (*wishlist.ItemDTO, error) {
	if externalID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "game id must be a positive integer").
			WithDetails(map[string]string{"game_id": "must be greater than 0"})
	}

	game, err := i.client.GetGameByID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	exists, err := i.lookup.ExistsByGameURL(ctx, game.GameURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing wishlist item")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "game already in wishlist")
	}

	item, err := i.wishlist.Create(ctx, wishlist.CreateItemInput{
		Title:     game.Title,
		Platform:  game.Platform,
		Thumbnail: game.Thumbnail,
		GameURL:   game.GameURL,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "catalog returned an incomplete game").
				WithDetails(map[string]any{"game_id": externalID, "fields": typed.Details()})
		}
		return nil, err
	}

	i.logg.Info(i.logg.WithFields(ctx, map[string]any{
		"wishlist_id": item.ID,
		"external_id": externalID,
		"game_url":    item.GameURL,
	}), "catalog.imported")
	return item, nil
}
