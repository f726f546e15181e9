// internal/reservation/domain.go
package reservation

import (
	"errors"
	"fmt"
	"time"
)

// Status is the lifecycle stage of a reservation. Transitions are forward
// only: reserved → collected → returned.
type Status string

const (
	StatusReserved  Status = "reserved"
	StatusCollected Status = "collected"
	StatusReturned  Status = "returned"
)

var statusOrder = map[Status]int{
	StatusReserved:  0,
	StatusCollected: 1,
	StatusReturned:  2,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransitionTo reports whether next is the immediate forward step from s.
func (s Status) CanTransitionTo(next Status) bool {
	cur, ok := statusOrder[s]
	if !ok {
		return false
	}
	nxt, ok := statusOrder[next]
	if !ok {
		return false
	}
	return nxt == cur+1
}

// Reservation is a user's claim on a device model. DeviceModelName is the
// display name captured at creation time; it does not follow later renames.
type Reservation struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	DeviceModelID   string     `json:"deviceModelId"`
	DeviceModelName string     `json:"deviceModelName,omitempty"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CollectedAt     *time.Time `json:"collectedAt,omitempty"`
	ReturnedAt      *time.Time `json:"returnedAt,omitempty"`
}

// CreateReservationInput creates a new reservation. UserID may be omitted
// when the backend derives it from the caller's identity.
type CreateReservationInput struct {
	UserID          string `json:"userId,omitempty"`
	DeviceModelID   string `json:"deviceModelId"`
	DeviceModelName string `json:"deviceModelName,omitempty"`
}

// Validate checks the input against the domain invariants.
func (in CreateReservationInput) Validate() error {
	if in.DeviceModelID == "" {
		return errors.New("deviceModelId is required")
	}
	return nil
}

// ErrInvalidStatus is returned for a status string outside the lifecycle.
var ErrInvalidStatus = errors.New("invalid reservation status")

// transitionError describes a rejected lifecycle move.
func transitionError(from, to Status) error {
	return fmt.Errorf("cannot transition reservation from %s to %s", from, to)
}

// clone returns a copy sharing no pointers with the original.
func (r Reservation) clone() Reservation {
	out := r
	if r.CollectedAt != nil {
		ts := *r.CollectedAt
		out.CollectedAt = &ts
	}
	if r.ReturnedAt != nil {
		ts := *r.ReturnedAt
		out.ReturnedAt = &ts
	}
	return out
}
