// internal/inventory/domain.go
package inventory

import (
	"errors"
	"time"
)

// Device is a loanable equipment model in the campus catalog. Count is the
// available stock; nil means the count is unknown to the caller, which is
// distinct from zero.
type Device struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Count       *int      `json:"count,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AddDeviceInput creates a new Device. A nil Count is defaulted to 1 before
// it reaches a service.
type AddDeviceInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Count       *int   `json:"count,omitempty"`
}

// Validate checks the input against the domain invariants.
func (in AddDeviceInput) Validate() error {
	if in.Name == "" {
		return errors.New("name is required")
	}
	if in.Count != nil && *in.Count < 0 {
		return errors.New("count cannot be negative")
	}
	return nil
}

// UpdateDeviceInput carries a partial update; only non-nil fields are
// applied.
type UpdateDeviceInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Count       *int    `json:"count,omitempty"`
}

// Validate checks the input against the domain invariants.
func (in UpdateDeviceInput) Validate() error {
	if in.Name != nil && *in.Name == "" {
		return errors.New("name cannot be empty")
	}
	if in.Count != nil && *in.Count < 0 {
		return errors.New("count cannot be negative")
	}
	return nil
}

// clone returns a copy of the device that shares no pointers with the
// original.
func (d Device) clone() Device {
	out := d
	if d.Count != nil {
		count := *d.Count
		out.Count = &count
	}
	return out
}
