// internal/inventory/container.go
package inventory

import (
	"context"
	"sync"

	"loandesk/internal/usecase"
	"loandesk/pkg/telemetry"
)

// Snapshot is one observable view of the inventory state.
type Snapshot struct {
	Items      []Device
	TotalCount int
	Loading    bool
	Adding     bool
	Updating   bool
	Deleting   bool
	Err        string
}

// Container holds the client-side view of the device catalog. Each operation
// kind carries its own in-flight flag: a duplicate invocation while that flag
// is set is dropped, not queued. Operations of different kinds may
// interleave.
type Container struct {
	mu        sync.Mutex
	svc       Service
	telemetry telemetry.Sink
	subs      []func(Snapshot)

	items      []Device
	totalCount int
	loading    bool
	adding     bool
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
	items := make([]Device, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:      items,
		TotalCount: c.totalCount,
		Loading:    c.loading,
		Adding:     c.adding,
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

// begin claims the in-flight flag for one operation kind, clearing the error
// on success. It reports false when that kind is already running.
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

// finish applies a state change and releases the flag, whatever happened in
// between.
func (c *Container) finish(flag *bool, apply func()) {
	c.mu.Lock()
	if apply != nil {
		apply()
	}
	*flag = false
	c.mu.Unlock()
	c.publish()
}

// Fetch loads the catalog. On failure the items and count reset to empty.
func (c *Container) Fetch(ctx context.Context) {
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
		c.trackFailure("inventory_fetch", res.Success, res.Err())
	}()

	res = ListDevices(ctx, c.svc)
}

// Add creates a device and optimistically prepends it.
func (c *Container) Add(ctx context.Context, input AddDeviceInput) {
	if !c.begin(&c.adding) {
		return
	}

	var res usecase.Result[*Device]
	defer func() {
		c.finish(&c.adding, func() {
			if res.Success {
				c.items = append([]Device{*res.Value}, c.items...)
				c.totalCount++
				return
			}
			c.err = res.Err()
		})
		c.trackFailure("inventory_add", res.Success, res.Err())
	}()

	res = AddDevice(ctx, c.svc, input)
}

// Update applies a partial update and replaces the matching item in place.
func (c *Container) Update(ctx context.Context, id string, input UpdateDeviceInput) {
	if !c.begin(&c.updating) {
		return
	}

	var res usecase.Result[*Device]
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
		c.trackFailure("inventory_update", res.Success, res.Err())
	}()

	res = UpdateDevice(ctx, c.svc, id, input)
}

// Delete removes a device and filters it out of the items. The count never
// drops below the length of the remaining items.
func (c *Container) Delete(ctx context.Context, id string) {
	if !c.begin(&c.deleting) {
		return
	}

	var res usecase.Result[string]
	defer func() {
		c.finish(&c.deleting, func() {
			if res.Success {
				kept := c.items[:0]
				for _, d := range c.items {
					if d.ID != id {
						kept = append(kept, d)
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
		c.trackFailure("inventory_delete", res.Success, res.Err())
	}()

	res = DeleteDevice(ctx, c.svc, id)
}

func (c *Container) trackFailure(op string, success bool, msg string) {
	if success {
		return
	}
	c.telemetry.TrackEvent(op+"_error", telemetry.Properties{"error": msg})
}
