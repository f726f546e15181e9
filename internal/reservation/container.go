// internal/reservation/container.go
package reservation

import (
	"context"
	"sync"

	"loandesk/internal/usecase"
	"loandesk/pkg/telemetry"
)

// Snapshot is one observable view of the reservation state.
type Snapshot struct {
	Items      []Reservation
	TotalCount int
	Loading    bool
	Creating   bool
	Updating   bool
	Deleting   bool
	Err        string
}

// Container holds the client-side view of the user's reservations. Each
// operation kind carries its own in-flight flag: a duplicate invocation
// while that flag is set is dropped, not queued. Operations of different
// kinds may interleave.
type Container struct {
	mu        sync.Mutex
	svc       Service
	telemetry telemetry.Sink
	subs      []func(Snapshot)

	items      []Reservation
	totalCount int
	loading    bool
	creating   bool
	updating   bool
	deleting   bool
	err        string
}

// NewContainer creates a container over the given service. A nil sink is
// replaced with a no-op.
func NewContainer(svc Service, sink telemetry.Sink) *Container {
	if sink == nil {
		sink = telemetry.Noop{}
	}
	return &Container{svc: svc, telemetry: sink}
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change.
func (c *Container) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Snapshot returns a copy of the current state.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Container) snapshotLocked() Snapshot {
	items := make([]Reservation, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:      items,
		TotalCount: c.totalCount,
		Loading:    c.loading,
		Creating:   c.creating,
		Updating:   c.updating,
		Deleting:   c.deleting,
		Err:        c.err,
	}
}

func (c *Container) publish() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	subs := c.subs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Container) begin(flag *bool) bool {
	c.mu.Lock()
	if *flag {
		c.mu.Unlock()
		return false
	}
	*flag = true
	c.err = ""
	c.mu.Unlock()
	c.publish()
	return true
}

func (c *Container) finish(flag *bool, apply func()) {
	c.mu.Lock()
	if apply != nil {
		apply()
	}
	*flag = false
	c.mu.Unlock()
	c.publish()
}

// Fetch loads reservations with an optional status filter. On failure the
// items and count reset to empty.
func (c *Container) Fetch(ctx context.Context, statusFilter []Status) {
	if !c.begin(&c.loading) {
		return
	}

	var res usecase.Result[ListResult]
	defer func() {
		c.finish(&c.loading, func() {
			if res.Success {
				c.items = res.Value.Items
				c.totalCount = res.Value.TotalCount
				return
			}
			c.items = nil
			c.totalCount = 0
			c.err = res.Err()
		})
		c.trackFailure("reservation_fetch", res.Success, res.Err())
	}()

	res = ListReservations(ctx, c.svc, statusFilter)
}

// Create places a reservation and optimistically prepends it.
func (c *Container) Create(ctx context.Context, input CreateReservationInput) {
	if !c.begin(&c.creating) {
		return
	}

	var res usecase.Result[*Reservation]
	defer func() {
		c.finish(&c.creating, func() {
			if res.Success {
				c.items = append([]Reservation{*res.Value}, c.items...)
				c.totalCount++
				return
			}
			c.err = res.Err()
		})
		c.trackFailure("reservation_create", res.Success, res.Err())
	}()

	res = CreateReservation(ctx, c.svc, input)
}

// UpdateStatus advances a reservation and replaces the matching item in
// place.
func (c *Container) UpdateStatus(ctx context.Context, id string, status Status) {
	if !c.begin(&c.updating) {
		return
	}

	var res usecase.Result[*Reservation]
	defer func() {
		c.finish(&c.updating, func() {
			if res.Success {
				for i := range c.items {
					if c.items[i].ID == id {
						c.items[i] = *res.Value
						break
					}
				}
				return
			}
			c.err = res.Err()
		})
		c.trackFailure("reservation_update", res.Success, res.Err())
	}()

	res = UpdateReservationStatus(ctx, c.svc, id, status)
}

// Delete cancels a reservation and filters it out of the items. The count
// never drops below the length of the remaining items.
func (c *Container) Delete(ctx context.Context, id string) {
	if !c.begin(&c.deleting) {
		return
	}

	var res usecase.Result[string]
	defer func() {
		c.finish(&c.deleting, func() {
			if res.Success {
				kept := c.items[:0]
				for _, r := range c.items {
					if r.ID != id {
						kept = append(kept, r)
					}
				}
				c.items = kept
				if c.totalCount--; c.totalCount < len(c.items) {
					c.totalCount = len(c.items)
				}
				return
			}
			c.err = res.Err()
		})
		c.trackFailure("reservation_delete", res.Success, res.Err())
	}()

	res = DeleteReservation(ctx, c.svc, id)
}

func (c *Container) trackFailure(op string, success bool, msg string) {
	if success {
		return
	}
	c.telemetry.TrackEvent(op+"_error", telemetry.Properties{"error": msg})
}
