// internal/inventory/usecases.go
package inventory

import (
	"context"

	"loandesk/internal/usecase"
)

// Use cases wrap each service operation into a Result. They perform no
// retries and no telemetry; resilience and observability belong to the
// service implementations.

// ListDevices fetches the catalog through the given service.
func ListDevices(ctx context.Context, svc Service) usecase.Result[ListResult] {
	result, err := svc.List(ctx)
	if err != nil {
		return usecase.FromError[ListResult](err, "Failed to load devices")
	}
	return usecase.Ok(result)
}

// AddDevice creates a device, defaulting an omitted count to 1.
func AddDevice(ctx context.Context, svc Service, input AddDeviceInput) usecase.Result[*Device] {
	if input.Count == nil {
		one := 1
		input.Count = &one
	}

	device, err := svc.Add(ctx, input)
	if err != nil {
		return usecase.FromError[*Device](err, "Failed to add device")
	}
	return usecase.Ok(device)
}

// UpdateDevice applies a partial update to a device.
func UpdateDevice(ctx context.Context, svc Service, id string, input UpdateDeviceInput) usecase.Result[*Device] {
	device, err := svc.Update(ctx, id, input)
	if err != nil {
		return usecase.FromError[*Device](err, "Failed to update device")
	}
	return usecase.Ok(device)
}

// DeleteDevice removes a device and reports its id back on success.
func DeleteDevice(ctx context.Context, svc Service, id string) usecase.Result[string] {
	if err := svc.Delete(ctx, id); err != nil {
		return usecase.FromError[string](err, "Failed to delete device")
	}
	return usecase.Ok(id)
}
