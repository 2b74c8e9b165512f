package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/visionapps/darkshop-core/api/controllers"
	"github.com/visionapps/darkshop-core/api/middleware"
	"github.com/visionapps/darkshop-core/internal/auth"
	"github.com/visionapps/darkshop-core/internal/catalog"
	"github.com/visionapps/darkshop-core/internal/ledger"
	"github.com/visionapps/darkshop-core/internal/sales"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/db"
	"github.com/visionapps/darkshop-core/pkg/logger"
	"github.com/visionapps/darkshop-core/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Registry *prometheus.Registry

	Auth    auth.Service
	Ledger  ledger.Service
	Catalog catalog.Service
	Sales   sales.Service
}

// NewRouter assembles the dashboard API.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(p.Auth, p.Logger))
			r.Post("/login", controllers.AuthLogin(p.Auth, p.Logger))
			r.Post("/logout", controllers.AuthLogout(p.Auth, p.Logger))
			r.Get("/session", controllers.AuthSession(p.Auth, p.Logger))
		})

		r.Route("/sellers/{sellerId}", func(r chi.Router) {
			r.Get("/history", controllers.SellerHistory(p.Ledger, p.Logger))
			r.Get("/balance", controllers.SellerBalance(p.Ledger, p.Logger))
		})

		r.Post("/sales", controllers.RecordSale(p.Sales, p.Logger))
		r.Post("/purchases", controllers.Purchase(p.Sales, p.Logger))
		r.Post("/subscription/activate", controllers.SubscriptionActivate(p.Sales, p.Logger))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(p.Catalog, p.Logger))
			r.Post("/", controllers.ProductsCreate(p.Catalog, p.Auth, p.Logger))
			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", controllers.ProductsGet(p.Catalog, p.Logger))
				r.Patch("/", controllers.ProductsUpdate(p.Catalog, p.Auth, p.Logger))
				r.Delete("/", controllers.ProductsDelete(p.Catalog, p.Auth, p.Logger))
			})
		})
	})

	return r
}
