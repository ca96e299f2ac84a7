package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/gamewishlist-backend/api/controllers"
	"github.com/angelmondragon/gamewishlist-backend/api/middleware"
	"github.com/angelmondragon/gamewishlist-backend/api/responses"
	"github.com/angelmondragon/gamewishlist-backend/internal/catalog"
	"github.com/angelmondragon/gamewishlist-backend/internal/wishlist"
	"github.com/angelmondragon/gamewishlist-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/gamewishlist-backend/pkg/errors"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
	"github.com/angelmondragon/gamewishlist-backend/pkg/metrics"
	"github.com/angelmondragon/gamewishlist-backend/pkg/redis"
)

// NewRouter wires every HTTP route. redisPinger, idemStore, httpMetrics and
// metricsHandler are optional; a nil value disables the matching feature.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	idemStore redis.IdempotencyStore,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	wishlistService wishlist.Service,
	searchService catalog.SearchService,
	importer catalog.Importer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(httpMetrics),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	if cfg.FeatureFlags.MetricsEnabled && metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	idempotent := middleware.Idempotency(idemStore, logg)

	r.Get("/wishlist", controllers.WishlistList(wishlistService, logg))
	r.With(idempotent).Post("/wishlist", controllers.WishlistCreate(wishlistService, logg))
	r.Delete("/wishlist/{id}", controllers.WishlistDelete(wishlistService, logg))
	r.With(idempotent).Post("/wishlist/from-freetogame", controllers.WishlistImport(importer, logg))
	r.Get("/search-games", controllers.CatalogSearch(searchService, logg))

	return r
}
