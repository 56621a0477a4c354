package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marvindelacruz/hardwarehub-backend/api/controllers"
	ordercontrollers "github.com/marvindelacruz/hardwarehub-backend/api/controllers/orders"
	reportcontrollers "github.com/marvindelacruz/hardwarehub-backend/api/controllers/reports"
	"github.com/marvindelacruz/hardwarehub-backend/api/middleware"
	"github.com/marvindelacruz/hardwarehub-backend/internal/analytics"
	"github.com/marvindelacruz/hardwarehub-backend/internal/orders"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/config"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/db"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
	pkgredis "github.com/marvindelacruz/hardwarehub-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	ordersSvc orders.Service,
	analyticsSvc analytics.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// Interface vars stay nil when redis is absent: the readiness check
	// skips the ping and the idempotency middleware becomes a passthrough.
	var (
		redisPinger      pkgredis.Pinger
		idempotencyStore pkgredis.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.CORS())
		r.Get("/orders/{orderNumber}/timeline", ordercontrollers.PublicTimeline(ordersSvc, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.CORS(),
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(idempotencyStore, logg),
		)

		r.Post("/orders", ordercontrollers.Create(ordersSvc, logg))
		r.Get("/orders", ordercontrollers.List(ordersSvc, logg))
		r.Get("/orders/{orderId}", ordercontrollers.Detail(ordersSvc, logg))
		r.Get("/orders/{orderId}/timeline", ordercontrollers.Timeline(ordersSvc, logg))
		r.Post("/orders/{orderId}/transition", ordercontrollers.Transition(ordersSvc, logg))

		r.Get("/reports/sales", reportcontrollers.Sales(analyticsSvc, logg))
	})

	return r
}
