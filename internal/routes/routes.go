package routes

import (
	"net/http"

	"certifire/internal/api/middleware"
	"certifire/internal/delivery"
	"certifire/internal/destinations"
	"certifire/internal/logger"
	"certifire/internal/metrics"
	"certifire/internal/monitoring"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Services struct {
	Destinations *destinations.Service
	Delivery     *delivery.Service
	Monitoring   *monitoring.Service
}

// Router mounts the API under /api, guarded by apiKey when it is set.
// /metrics and /healthz stay public.
func Router(services *Services, apiKey string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger.Get()))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", metrics.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKey(apiKey))

		destinations.RegisterRoutes(r, services.Destinations, services.Delivery)
		monitoring.RegisterRoutes(r, services.Monitoring)
	})

	return r
}
