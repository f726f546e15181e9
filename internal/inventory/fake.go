// internal/inventory/fake.go
package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeService is the in-memory Service used by tests and for offline/demo
// operation. IDs are assigned from a monotonic counter as "dev_{n}".
type FakeService struct {
	mu      sync.Mutex
	devices []Device
	nextID  int
}

var _ Service = (*FakeService)(nil)

// NewFakeService creates an empty fake inventory backend.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// Seed replaces the current contents. Seeded devices keep the IDs they carry;
// the counter moves past them.
func (s *FakeService) Seed(devices ...Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = make([]Device, len(devices))
	for i, d := range devices {
		s.devices[i] = d.clone()
	}
	s.nextID = len(devices) + 1
}

// List returns a copy of the current devices. Callers never observe internal
// mutation through the returned slice.
func (s *FakeService) List(context.Context) (ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Device, len(s.devices))
	for i, d := range s.devices {
		items[i] = d.clone()
	}
	return ListResult{Items: items, TotalCount: len(items)}, nil
}

// Add assigns the next ID, defaults an omitted count to 1, and inserts the
// device at the front of the list.
func (s *FakeService) Add(_ context.Context, input AddDeviceInput) (*Device, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 1
	if input.Count != nil {
		count = *input.Count
	}

	device := Device{
		ID:          fmt.Sprintf("dev_%d", s.nextID),
		Name:        input.Name,
		Description: input.Description,
		Count:       &count,
		UpdatedAt:   time.Now(),
	}
	s.nextID++
	s.devices = append([]Device{device}, s.devices...)

	out := device.clone()
	return &out, nil
}

// Update merges the supplied fields over the existing record and bumps
// UpdatedAt.
func (s *FakeService) Update(_ context.Context, id string, input UpdateDeviceInput) (*Device, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID != id {
			continue
		}

		d := &s.devices[i]
		if input.Name != nil {
			d.Name = *input.Name
		}
		if input.Description != nil {
			d.Description = *input.Description
		}
		if input.Count != nil {
			count := *input.Count
			d.Count = &count
		}
		d.UpdatedAt = bumpTimestamp(d.UpdatedAt)

		out := d.clone()
		return &out, nil
	}

	return nil, fmt.Errorf("Device with id %s not found", id)
}

// Delete removes the device with the given id.
func (s *FakeService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID == id {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("Device with id %s not found", id)
}

// bumpTimestamp returns the current time, nudged forward when the clock has
// not advanced past prev, so updated records always move strictly forward.
func bumpTimestamp(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
