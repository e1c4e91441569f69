package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kontra/pkg/domain"
	"kontra/pkg/platform/httputil"
)

// HealthCheck reports the liveness of one dependency.
type HealthCheck func(ctx context.Context) error

// NewRouter assembles the full route tree.
func NewRouter(h *Handler, validator TokenValidator, isAdmin func(domain.UserID) bool, logger *slog.Logger, healthChecks map[string]HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(healthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(validator, logger))

		r.Post("/checks", h.RunCheck)
		r.Get("/checks/{taxID}/document", h.GetDocument)

		r.Get("/me", h.Me)
		r.Get("/me/history", h.History)
		r.Get("/me/favorites", h.ListFavorites)
		r.Post("/me/favorites", h.AddFavorite)
		r.Delete("/me/favorites/{taxID}", h.RemoveFavorite)
		r.Get("/me/payments", h.ListPayments)

		r.Get("/tariffs", h.Tariffs)
		r.Post("/payments", h.StartPayment)
		r.Get("/payments/{paymentID}", h.GetPayment)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(isAdmin))
			r.Get("/admin/stats", h.AdminStats)
		})
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		result := make(map[string]string, len(checks)+1)
		result["status"] = "ok"
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				result["status"] = "degraded"
				continue
			}
			result[name] = "ok"
		}
		httputil.WriteJSON(w, status, result)
	}
}
