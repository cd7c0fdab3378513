package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wishbox-app/wishbox-backend/api/controllers"
	"github.com/wishbox-app/wishbox-backend/api/middleware"
	"github.com/wishbox-app/wishbox-backend/internal/items"
	"github.com/wishbox-app/wishbox-backend/internal/wishlists"
	"github.com/wishbox-app/wishbox-backend/pkg/config"
	"github.com/wishbox-app/wishbox-backend/pkg/db"
	"github.com/wishbox-app/wishbox-backend/pkg/logger"
	"github.com/wishbox-app/wishbox-backend/pkg/metrics"
	"github.com/wishbox-app/wishbox-backend/pkg/redis"
)

// RouterParams carries everything the router wires together.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *db.Client
	Redis           *redis.Client
	WishlistService wishlists.Service
	ItemService     items.Service
	Registry        *prometheus.Registry
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	registry := params.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	createPolicy := middleware.NewRateLimitPolicy(
		"create",
		cfg.RateLimit.CreateWindow,
		cfg.RateLimit.CreateIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.NewPingerMap(params.DB, params.Redis)))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(createPolicy, params.Redis, logg)).
			Post("/wishlists", controllers.CreateWishlist(params.WishlistService, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/wishlist", controllers.AdminGetWishlist(params.WishlistService, params.ItemService, logg))
			r.Patch("/wishlist", controllers.AdminUpdateWishlist(params.WishlistService, logg))
			r.Delete("/wishlist", controllers.AdminDeleteWishlist(params.WishlistService, logg))

			r.Post("/items", controllers.AdminAddItem(params.ItemService, logg))
			r.Patch("/items/{itemId}", controllers.AdminUpdateItem(params.ItemService, logg))
			r.Delete("/items/{itemId}", controllers.AdminDeleteItem(params.ItemService, logg))
			r.Post("/items/{itemId}/unreserve", controllers.AdminUnreserveItem(params.ItemService, logg))
		})

		r.Route("/guest", func(r chi.Router) {
			r.Get("/wishlist", controllers.GuestGetWishlist(params.WishlistService, params.ItemService, logg))
			r.Post("/items/{itemId}/reservation", controllers.GuestReserveItem(params.ItemService, logg))
			r.Delete("/items/{itemId}/reservation", controllers.GuestCancelReservation(params.ItemService, logg))
		})
	})

	return r
}
