// internal/reservation/service.go
package reservation

import "context"

// ListResult is a page of reservations plus the total the backend knows
// about.
type ListResult struct {
	Items      []Reservation `json:"items"`
	TotalCount int           `json:"totalCount"`
}

// Service defines the interface for the reservation backend. A non-empty
// statusFilter restricts List to reservations whose status is in the set.
type Service interface {
	List(ctx context.Context, statusFilter []Status) (ListResult, error)
	Create(ctx context.Context, input CreateReservationInput) (*Reservation, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)
	Delete(ctx context.Context, id string) error
}
