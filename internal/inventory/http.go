// internal/inventory/http.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"loandesk/internal/transport"
	"loandesk/pkg/retry"
	"loandesk/pkg/telemetry"
)

const devicesPath = "/api/devices"

// errDeviceServiceUnavailable is surfaced when the list call exhausts its
// retries against a retryable status.
var errDeviceServiceUnavailable = errors.New("Device service temporarily unavailable - please try again")

// HTTPService talks to the device inventory REST API. List calls retry on
// transient failures; mutations are sent exactly once.
type HTTPService struct {
	client *transport.Client
	policy retry.Policy
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService creates an HTTP-backed inventory service.
func NewHTTPService(client *transport.Client, policy retry.Policy) *HTTPService {
	if policy.MaxAttempts < 1 {
		policy = retry.DefaultPolicy()
	}
	return &HTTPService{client: client, policy: policy}
}

// List fetches the device catalog, retrying on retryable statuses and likely
// network errors.
func (s *HTTPService) List(ctx context.Context) (ListResult, error) {
	start := time.Now()

	var lastErr error
	lastStatus := 0
	lastWasStatus := false

	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := s.policy.Wait(ctx, attempt-1); err != nil {
				lastErr = err
				lastWasStatus = false
				break
			}
		}

		resp, err := s.client.Do(ctx, http.MethodGet, devicesPath, nil)
		if err != nil {
			lastErr = err
			lastStatus = 0
			lastWasStatus = false
			if retry.IsLikelyNetworkError(err) {
				continue
			}
			break
		}

		if retry.IsRetryableStatus(resp.StatusCode) {
			lastStatus = resp.StatusCode
			lastErr = transport.StatusError(resp)
			lastWasStatus = true
			continue
		}

		result, err := decodeDeviceList(resp)
		s.client.Report("inventory_list", devicesPath, start, resp.StatusCode, err,
			telemetry.Properties{"count": fmt.Sprint(result.TotalCount)})
		if err != nil {
			return ListResult{}, err
		}
		return result, nil
	}

	if lastWasStatus {
		lastErr = errDeviceServiceUnavailable
	}
	s.client.Report("inventory_list", devicesPath, start, lastStatus, lastErr, nil)
	return ListResult{}, lastErr
}

// Add creates a device.
func (s *HTTPService) Add(ctx context.Context, input AddDeviceInput) (*Device, error) {
	start := time.Now()

	resp, err := s.client.Do(ctx, http.MethodPost, devicesPath, input)
	if err != nil {
		s.client.Report("inventory_add", devicesPath, start, 0, err, nil)
		return nil, err
	}

	device, err := decodeDevice(resp, "add")
	props := telemetry.Properties{}
	if device != nil {
		props["id"] = device.ID
	}
	s.client.Report("inventory_add", devicesPath, start, resp.StatusCode, err, props)
	return device, err
}

// Update applies a partial update to a device.
func (s *HTTPService) Update(ctx context.Context, id string, input UpdateDeviceInput) (*Device, error) {
	start := time.Now()
	target := devicesPath + "/" + url.PathEscape(id)

	resp, err := s.client.Do(ctx, http.MethodPatch, target, input)
	if err != nil {
		s.client.Report("inventory_update", target, start, 0, err, nil)
		return nil, err
	}

	device, err := decodeDevice(resp, "update")
	s.client.Report("inventory_update", target, start, resp.StatusCode, err,
		telemetry.Properties{"id": id})
	return device, err
}

// Delete removes a device. Success is the response being OK; no body is
// parsed.
func (s *HTTPService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	target := devicesPath + "/" + url.PathEscape(id)

	resp, err := s.client.Do(ctx, http.MethodDelete, target, nil)
	if err != nil {
		s.client.Report("inventory_delete", target, start, 0, err, nil)
		return err
	}

	err = transport.StatusError(resp)
	s.client.Report("inventory_delete", target, start, resp.StatusCode, err,
		telemetry.Properties{"id": id})
	return err
}

func decodeDeviceList(resp *http.Response) (ListResult, error) {
	payload, err := transport.ReadPayload(resp)
	if err != nil {
		return ListResult{}, err
	}

	data, count, err := transport.ListEnvelope(payload)
	if err != nil {
		return ListResult{}, err
	}

	items := make([]Device, 0, len(data))
	for _, element := range data {
		entry, ok := element.(map[string]any)
		if !ok {
			return ListResult{}, errors.New("Malformed list response")
		}
		device, err := deviceFromPayload(entry)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, *device)
	}

	return ListResult{Items: items, TotalCount: count}, nil
}

func decodeDevice(resp *http.Response, op string) (*Device, error) {
	payload, err := transport.ReadPayload(resp)
	if err != nil {
		return nil, err
	}

	item, ok := transport.ItemPayload(payload)
	if !ok {
		return nil, fmt.Errorf("Malformed %s device response", op)
	}
	return deviceFromPayload(item)
}

func deviceFromPayload(entry map[string]any) (*Device, error) {
	device := Device{}
	if v, ok := entry["id"].(string); ok {
		device.ID = v
	}
	if v, ok := entry["name"].(string); ok {
		device.Name = v
	}
	if v, ok := entry["description"].(string); ok {
		device.Description = v
	}

	if v, present := entry["count"]; present && v != nil {
		n, ok := v.(float64)
		if !ok || n < 0 || n != float64(int(n)) {
			return nil, errors.New("Invalid device count")
		}
		count := int(n)
		device.Count = &count
	}

	if v, present := entry["updatedAt"]; present && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("Invalid updatedAt date")
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, errors.New("Invalid updatedAt date")
		}
		device.UpdatedAt = ts
	}

	return &device, nil
}
