package controllers

import (
	"math"
	"net/http"

	"github.com/angelmondragon/gamewishlist-backend/api/responses"
	"github.com/angelmondragon/gamewishlist-backend/api/validators"
	"github.com/angelmondragon/gamewishlist-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/gamewishlist-backend/pkg/errors"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
)

const maxSearchParamLen = 100

type importGamePayload struct {
	GameID int `json:"game_id" validate:"required,gt=0"`
}

// CatalogSearch proxies GET /search-games to the catalog.
func CatalogSearch(svc catalog.SearchService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		query := r.URL.Query()
		params := catalog.SearchParams{
			Title:    validators.SanitizeString(query.Get("title"), maxSearchParamLen),
			Platform: validators.SanitizeString(query.Get("platform"), maxSearchParamLen),
			Genre:    validators.SanitizeString(query.Get("genre"), maxSearchParamLen),
		}

		games, err := svc.Search(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, games)
	}
}

// WishlistImport copies a catalog game into the wishlist. The id comes from
// the ?id= query parameter when present, otherwise from {"game_id"}.
func WishlistImport(svc catalog.Importer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import service unavailable"))
			return
		}

		gameID, err := importGameID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.ImportFromCatalog(ctx, gameID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func importGameID(r *http.Request) (int, error) {
	if validators.HasQuery(r, "id") {
		return validators.ParseQueryInt(r, "id", 0, 1, math.MaxInt32)
	}
	var body importGamePayload
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return 0, err
	}
	return body.GameID, nil
}
