// internal/reservation/http.go
package reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"loandesk/internal/transport"
	"loandesk/pkg/retry"
	"loandesk/pkg/telemetry"
)

const reservationsPath = "/api/reservations"

// errReservationServiceUnavailable is surfaced when the list call exhausts
// its retries against a retryable status.
var errReservationServiceUnavailable = errors.New("Reservation service temporarily unavailable - please try again")

// HTTPService talks to the reservation REST API. List calls retry on
// transient failures; mutations are sent exactly once.
type HTTPService struct {
	client *transport.Client
	policy retry.Policy
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService creates an HTTP-backed reservation service.
func NewHTTPService(client *transport.Client, policy retry.Policy) *HTTPService {
	if policy.MaxAttempts < 1 {
		policy = retry.DefaultPolicy()
	}
	return &HTTPService{client: client, policy: policy}
}

// List fetches reservations, optionally filtered by status. The filter is
// applied server-side via a comma-joined query parameter.
func (s *HTTPService) List(ctx context.Context, statusFilter []Status) (ListResult, error) {
	start := time.Now()
	target := reservationsPath
	if len(statusFilter) > 0 {
		values := make([]string, len(statusFilter))
		for i, st := range statusFilter {
			values[i] = string(st)
		}
		target += "?status=" + strings.Join(values, ",")
	}

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

		resp, err := s.client.Do(ctx, http.MethodGet, target, nil)
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

		result, err := decodeReservationList(resp)
		s.client.Report("reservation_list", target, start, resp.StatusCode, err,
			telemetry.Properties{"count": fmt.Sprint(result.TotalCount)})
		if err != nil {
			return ListResult{}, err
		}
		return result, nil
	}

	if lastWasStatus {
		lastErr = errReservationServiceUnavailable
	}
	s.client.Report("reservation_list", target, start, lastStatus, lastErr, nil)
	return ListResult{}, lastErr
}

// Create places a new reservation.
func (s *HTTPService) Create(ctx context.Context, input CreateReservationInput) (*Reservation, error) {
	start := time.Now()

	resp, err := s.client.Do(ctx, http.MethodPost, reservationsPath, input)
	if err != nil {
		s.client.Report("reservation_create", reservationsPath, start, 0, err, nil)
		return nil, err
	}

	reservation, err := decodeReservation(resp, "create")
	props := telemetry.Properties{}
	if reservation != nil {
		props["id"] = reservation.ID
	}
	s.client.Report("reservation_create", reservationsPath, start, resp.StatusCode, err, props)
	return reservation, err
}

// UpdateStatus advances a reservation's lifecycle status.
func (s *HTTPService) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	start := time.Now()
	target := reservationsPath + "/" + url.PathEscape(id) + "/status"

	resp, err := s.client.Do(ctx, http.MethodPatch, target, map[string]Status{"status": status})
	if err != nil {
		s.client.Report("reservation_update_status", target, start, 0, err, nil)
		return nil, err
	}

	reservation, err := decodeReservation(resp, "update")
	s.client.Report("reservation_update_status", target, start, resp.StatusCode, err,
		telemetry.Properties{"id": id, "status": string(status)})
	return reservation, err
}

// Delete cancels a reservation. Success is the response being OK; no body is
// parsed.
func (s *HTTPService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	target := reservationsPath + "/" + url.PathEscape(id)

	resp, err := s.client.Do(ctx, http.MethodDelete, target, nil)
	if err != nil {
		s.client.Report("reservation_delete", target, start, 0, err, nil)
		return err
	}

	err = transport.StatusError(resp)
	s.client.Report("reservation_delete", target, start, resp.StatusCode, err,
		telemetry.Properties{"id": id})
	return err
}

func decodeReservationList(resp *http.Response) (ListResult, error) {
	payload, err := transport.ReadPayload(resp)
	if err != nil {
		return ListResult{}, err
	}

	data, count, err := transport.ListEnvelope(payload)
	if err != nil {
		return ListResult{}, err
	}

	items := make([]Reservation, 0, len(data))
	for _, element := range data {
		entry, ok := element.(map[string]any)
		if !ok {
			return ListResult{}, errors.New("Malformed list response")
		}
		reservation, err := reservationFromPayload(entry)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, *reservation)
	}

	return ListResult{Items: items, TotalCount: count}, nil
}

func decodeReservation(resp *http.Response, op string) (*Reservation, error) {
	payload, err := transport.ReadPayload(resp)
	if err != nil {
		return nil, err
	}

	item, ok := transport.ItemPayload(payload)
	if !ok {
		return nil, fmt.Errorf("Malformed %s reservation response", op)
	}
	return reservationFromPayload(item)
}

func reservationFromPayload(entry map[string]any) (*Reservation, error) {
	r := Reservation{}
	if v, ok := entry["id"].(string); ok {
		r.ID = v
	}
	if v, ok := entry["userId"].(string); ok {
		r.UserID = v
	}
	if v, ok := entry["deviceModelId"].(string); ok {
		r.DeviceModelID = v
	}
	if v, ok := entry["deviceModelName"].(string); ok {
		r.DeviceModelName = v
	}
	if v, ok := entry["status"].(string); ok {
		r.Status = Status(v)
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
		r.UpdatedAt = ts
	}

	// Secondary timestamps are best-effort: an absent or unparseable value
	// stays unset.
	r.CreatedAt = parseTime(entry["createdAt"])
	if ts := parseTime(entry["collectedAt"]); !ts.IsZero() {
		r.CollectedAt = &ts
	}
	if ts := parseTime(entry["returnedAt"]); !ts.IsZero() {
		r.ReturnedAt = &ts
	}

	return &r, nil
}

func parseTime(value any) time.Time {
	s, ok := value.(string)
	if !ok {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
