// internal/reservation/fake.go
package reservation

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// defaultUserID is stamped on fake reservations created without an owner.
const defaultUserID = "test-user-id"

// FakeService is the in-memory Service used by tests and for offline/demo
// operation. IDs are assigned from a monotonic counter as "res-{n}".
type FakeService struct {
	mu           sync.Mutex
	reservations []Reservation
	nextID       int
}

var _ Service = (*FakeService)(nil)

// NewFakeService creates an empty fake reservation backend.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// Seed replaces the current contents; the counter moves past the seeded
// entries.
func (s *FakeService) Seed(reservations ...Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reservations = make([]Reservation, len(reservations))
	for i, r := range reservations {
		s.reservations[i] = r.clone()
	}
	s.nextID = len(reservations) + 1
}

// List returns a copy of the current reservations, filtered by status when a
// non-empty filter is given.
func (s *FakeService) List(_ context.Context, statusFilter []Status) (ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if len(statusFilter) > 0 && !slices.Contains(statusFilter, r.Status) {
			continue
		}
		items = append(items, r.clone())
	}
	return ListResult{Items: items, TotalCount: len(items)}, nil
}

// Create appends a new reservation in the reserved state.
func (s *FakeService) Create(_ context.Context, input CreateReservationInput) (*Reservation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := input.UserID
	if userID == "" {
		userID = defaultUserID
	}

	now := time.Now()
	r := Reservation{
		ID:              fmt.Sprintf("res-%d", s.nextID),
		UserID:          userID,
		DeviceModelID:   input.DeviceModelID,
		DeviceModelName: input.DeviceModelName,
		Status:          StatusReserved,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.nextID++
	s.reservations = append(s.reservations, r)

	out := r.clone()
	return &out, nil
}

// UpdateStatus advances a reservation through its lifecycle, stamping
// CollectedAt or ReturnedAt on entry to those statuses. Timestamps already
// set are never cleared.
func (s *FakeService) UpdateStatus(_ context.Context, id string, status Status) (*Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reservations {
		if s.reservations[i].ID != id {
			continue
		}

		r := &s.reservations[i]
		if !r.Status.CanTransitionTo(status) {
			return nil, transitionError(r.Status, status)
		}

		now := bumpTimestamp(r.UpdatedAt)
		r.Status = status
		r.UpdatedAt = now
		switch status {
		case StatusCollected:
			if r.CollectedAt == nil {
				ts := now
				r.CollectedAt = &ts
			}
		case StatusReturned:
			if r.ReturnedAt == nil {
				ts := now
				r.ReturnedAt = &ts
			}
		}

		out := r.clone()
		return &out, nil
	}

	return nil, fmt.Errorf("Reservation %s not found", id)
}

// Delete removes the reservation with the given id.
func (s *FakeService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("Reservation %s not found", id)
}

func bumpTimestamp(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
