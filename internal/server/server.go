// internal/server/server.go
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"loandesk/internal/inventory"
	"loandesk/internal/reservation"
)

// Config wires the API server to its backing services.
type Config struct {
	Inventory    inventory.Service
	Reservations reservation.Service
	Logger       zerolog.Logger

	// RateLimit caps requests per second across all clients. Zero disables
	// limiting.
	RateLimit rate.Limit
	RateBurst int
}

// New builds the HTTP handler for the device-loan API.
func New(cfg Config) http.Handler {
	s := &server{
		inventory:    cfg.Inventory,
		reservations: cfg.Reservations,
		logger:       cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(cfg.Logger))
	r.Use(recordMetrics)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		r.Use(rateLimiter(rate.NewLimiter(cfg.RateLimit, burst)))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/devices", func(r chi.Router) {
		r.Get("/", s.listDevices)
		r.Post("/", s.addDevice)
		r.Patch("/{id}", s.updateDevice)
		r.Delete("/{id}", s.deleteDevice)
	})

	r.Route("/api/reservations", func(r chi.Router) {
		r.Get("/", s.listReservations)
		r.Post("/", s.createReservation)
		r.Patch("/{id}/status", s.updateReservationStatus)
		r.Delete("/{id}", s.deleteReservation)
	})

	return r
}

type server struct {
	inventory    inventory.Service
	reservations reservation.Service
	logger       zerolog.Logger
}

// Server wraps http.Server with sane timeouts for the loan API.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
