// cmd/loandesk-server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/time/rate"

	"loandesk/internal/inventory"
	"loandesk/internal/reservation"
	"loandesk/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "loandesk-server").Logger()

	shutdownTracing, err := setupTracing(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("tracing setup failed")
	}
	defer shutdownTracing()

	devices := inventory.NewFakeService()
	reservations := reservation.NewFakeService()
	seed(devices, reservations)

	handler := server.New(server.Config{
		Inventory:    devices,
		Reservations: reservations,
		Logger:       logger,
		RateLimit:    rate.Limit(envFloat("RATE_LIMIT_RPS", 50)),
		RateBurst:    envInt("RATE_LIMIT_BURST", 100),
	})

	srv := server.NewHTTPServer(":"+getEnv("PORT", "8080"), handler)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
	logger.Info().Msg("stopped")
}

// setupTracing installs an OTLP trace exporter when an endpoint is
// configured, and returns a shutdown func either way.
func setupTracing(ctx context.Context) (func(), error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return func() {}, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}, nil
}

func seed(devices *inventory.FakeService, reservations *reservation.FakeService) {
	now := time.Now()
	three, five := 3, 5
	devices.Seed(
		inventory.Device{ID: "dev_1", Name: "MacBook Air M3", Description: "13-inch laptop", Count: &five, UpdatedAt: now},
		inventory.Device{ID: "dev_2", Name: "iPad Pro", Description: "12.9-inch tablet", Count: &three, UpdatedAt: now},
	)
	reservations.Seed(
		reservation.Reservation{
			ID:            "res-1",
			UserID:        "test-user-id",
			DeviceModelID: "dev_1",
			Status:        reservation.StatusReserved,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}
