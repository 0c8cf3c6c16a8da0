package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authHandler "anuragmeds/internal/auth/handler"
	paymentHandler "anuragmeds/internal/payment/handler"
	"anuragmeds/internal/platform/middleware"
	prescriptionHandler "anuragmeds/internal/prescription/handler"
	"anuragmeds/internal/transport/http/shared"
)

// NewRouter wires all public endpoints. Handlers register their own routes
// and auth guards; the router owns only the cross-cutting middleware.
func NewRouter(
	logger *slog.Logger,
	auth *authHandler.Handler,
	prescriptions *prescriptionHandler.Handler,
	payments *paymentHandler.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	auth.Register(r)
	prescriptions.Register(r)
	payments.Register(r)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
