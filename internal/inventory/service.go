// internal/inventory/service.go
package inventory

import "context"

// ListResult is a page of devices plus the total the backend knows about.
type ListResult struct {
	Items      []Device `json:"items"`
	TotalCount int      `json:"totalCount"`
}

// Service defines the interface for the device inventory backend. The fake
// and HTTP implementations are interchangeable.
type Service interface {
	List(ctx context.Context) (ListResult, error)
	Add(ctx context.Context, input AddDeviceInput) (*Device, error)
	Update(ctx context.Context, id string, input UpdateDeviceInput) (*Device, error)
	Delete(ctx context.Context, id string) error
}
