// cmd/loandesk/main.go
//
// Demo client: points the device and reservation services at a running API
// and drives the state containers through a short session, printing every
// state change.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"loandesk/internal/auth"
	"loandesk/internal/inventory"
	"loandesk/internal/reservation"
	"loandesk/internal/transport"
	"loandesk/pkg/retry"
	"loandesk/pkg/telemetry"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var tokens auth.TokenProvider
	if token := os.Getenv("LOANDESK_TOKEN"); token != "" {
		tokens = auth.StaticProvider{Token: token}
	}

	sink, err := telemetry.NewOTel("loandesk-demo")
	if err != nil {
		logger.Fatal().Err(err).Msg("telemetry setup failed")
	}

	client := transport.NewClient(transport.Config{
		BaseURL:   getEnv("LOANDESK_API_URL", "http://localhost:8080"),
		Tokens:    tokens,
		Telemetry: sink,
		Logger:    logger,
	})

	policy := retry.DefaultPolicy()
	devices := inventory.NewContainer(inventory.NewHTTPService(client, policy), client.Telemetry())
	reservations := reservation.NewContainer(reservation.NewHTTPService(client, policy), client.Telemetry())

	devices.Subscribe(func(s inventory.Snapshot) {
		fmt.Printf("devices: %d items (total %d) loading=%v err=%q\n",
			len(s.Items), s.TotalCount, s.Loading, s.Err)
	})
	reservations.Subscribe(func(s reservation.Snapshot) {
		fmt.Printf("reservations: %d items (total %d) loading=%v err=%q\n",
			len(s.Items), s.TotalCount, s.Loading, s.Err)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	devices.Fetch(ctx)
	reservations.Fetch(ctx, nil)

	snap := devices.Snapshot()
	if len(snap.Items) > 0 {
		reservations.Create(ctx, reservation.CreateReservationInput{
			DeviceModelID:   snap.Items[0].ID,
			DeviceModelName: snap.Items[0].Name,
		})
	}

	active := reservations.Snapshot()
	if len(active.Items) > 0 {
		reservations.UpdateStatus(ctx, active.Items[0].ID, reservation.StatusCollected)
	}

	reservations.Fetch(ctx, []reservation.Status{reservation.StatusCollected})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
