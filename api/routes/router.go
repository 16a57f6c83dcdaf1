package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvasseur/fripe-backend/api/controllers"
	"github.com/mvasseur/fripe-backend/api/middleware"
	"github.com/mvasseur/fripe-backend/api/responses"
	"github.com/mvasseur/fripe-backend/internal/offers"
	"github.com/mvasseur/fripe-backend/internal/users"
	"github.com/mvasseur/fripe-backend/pkg/config"
	"github.com/mvasseur/fripe-backend/pkg/logger"
	"github.com/mvasseur/fripe-backend/pkg/metrics"
	"github.com/mvasseur/fripe-backend/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Registry     *prometheus.Registry
	Metrics      *metrics.RequestMetrics
	RedisClient  *redis.Client
	UserService  users.Service
	OfferService offers.Service
	Pingers      map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Metrics(deps.Metrics),
		middleware.Logging(logg),
	)

	maxUpload := cfg.Media.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Post("/user/signup", controllers.UserSignup(deps.UserService, maxUpload, logg))
	r.Post("/user/login", controllers.UserLogin(deps.UserService, logg))

	r.Get("/offers", controllers.OffersList(deps.OfferService, logg))
	r.Get("/offer/{id}", controllers.OfferDetail(deps.OfferService, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.UserService, logg))
		if deps.RedisClient != nil {
			r.Use(middleware.Idempotency(deps.RedisClient, cfg.Idempotency.TTL, logg))
		}
		r.Post("/offer/publish", controllers.OfferPublish(deps.OfferService, maxUpload, logg))
		r.Put("/offer/update", controllers.OfferUpdate(deps.OfferService, logg))
		r.Delete("/offer/delete", controllers.OfferDelete(deps.OfferService, logg))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteNotFound(w)
	})

	return r
}
