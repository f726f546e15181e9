// internal/reservation/usecases.go
package reservation

import (
	"context"

	"loandesk/internal/usecase"
)

// Use cases wrap each service operation into a Result. They perform no
// retries and no telemetry; resilience and observability belong to the
// service implementations.

// ListReservations fetches reservations, optionally filtered by status.
func ListReservations(ctx context.Context, svc Service, statusFilter []Status) usecase.Result[ListResult] {
	result, err := svc.List(ctx, statusFilter)
	if err != nil {
		return usecase.FromError[ListResult](err, "Failed to load reservations")
	}
	return usecase.Ok(result)
}

// CreateReservation places a new reservation.
func CreateReservation(ctx context.Context, svc Service, input CreateReservationInput) usecase.Result[*Reservation] {
	reservation, err := svc.Create(ctx, input)
	if err != nil {
		return usecase.FromError[*Reservation](err, "Failed to create reservation")
	}
	return usecase.Ok(reservation)
}

// UpdateReservationStatus advances a reservation's lifecycle status.
func UpdateReservationStatus(ctx context.Context, svc Service, id string, status Status) usecase.Result[*Reservation] {
	reservation, err := svc.UpdateStatus(ctx, id, status)
	if err != nil {
		return usecase.FromError[*Reservation](err, "Failed to update reservation")
	}
	return usecase.Ok(reservation)
}

// DeleteReservation cancels a reservation and reports its id back on
// success.
func DeleteReservation(ctx context.Context, svc Service, id string) usecase.Result[string] {
	if err := svc.Delete(ctx, id); err != nil {
		return usecase.FromError[string](err, "Failed to delete reservation")
	}
	return usecase.Ok(id)
}
