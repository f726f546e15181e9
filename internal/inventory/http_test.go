package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandesk/internal/transport"
	"loandesk/pkg/retry"
	"loandesk/pkg/telemetry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func newHTTPService(t *testing.T, handler http.Handler) (*HTTPService, *telemetry.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rec := &telemetry.Recorder{}
	client := transport.NewClient(transport.Config{
		BaseURL:   srv.URL,
		Telemetry: rec,
		Logger:    zerolog.Nop(),
	})
	return NewHTTPService(client, fastPolicy()), rec
}

func TestHTTPListTrustsServerCount(t *testing.T) {
	svc, rec := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/devices", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "dev_1", "name": "a", "count": 1, "updatedAt": "2026-08-01T10:00:00Z"},
				{"id": "dev_2", "name": "b", "count": 0, "updatedAt": "2026-08-02T10:00:00Z"},
				{"id": "dev_3", "name": "c", "updatedAt": "2026-08-03T10:00:00Z"},
			},
			"count": 5,
		})
	}))

	result, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.Equal(t, 5, result.TotalCount)

	// count present as zero is distinct from count absent
	require.NotNil(t, result.Items[1].Count)
	assert.Zero(t, *result.Items[1].Count)
	assert.Nil(t, result.Items[2].Count)

	require.Len(t, rec.Dependencies, 1)
	assert.True(t, rec.Dependencies[0].Success)
	assert.Equal(t, []string{"inventory_list"}, rec.EventNames())
}

func TestHTTPListCountDefaultsToLength(t *testing.T) {
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "dev_1", "name": "a"}},
		})
	}))

	result, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
}

func TestHTTPListInvalidUpdatedAt(t *testing.T) {
	svc, rec := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "dev_1", "name": "a", "updatedAt": "yesterday"}},
		})
	}))

	_, err := svc.List(context.Background())
	require.EqualError(t, err, "Invalid updatedAt date")
	assert.Equal(t, []string{"inventory_list_failed"}, rec.EventNames())
}

func TestHTTPListRetriesRetryableStatus(t *testing.T) {
	calls := 0
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))

	result, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Zero(t, result.TotalCount)
}

func TestHTTPListExhaustedRetryableStatus(t *testing.T) {
	calls := 0
	svc, rec := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "temporarily unavailable")

	require.Len(t, rec.Dependencies, 1)
	assert.False(t, rec.Dependencies[0].Success)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Dependencies[0].ResponseCode)
}

func TestHTTPListDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": "nope"})
	}))

	_, err := svc.List(context.Background())
	require.EqualError(t, err, "400 Bad Request - nope")
	assert.Equal(t, 1, calls)
}

func TestHTTPAdd(t *testing.T) {
	svc, rec := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/devices", r.URL.Path)

		var input AddDeviceInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "Raspberry Pi 5", input.Name)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"item": map[string]any{"id": "dev_9", "name": input.Name, "count": 4, "updatedAt": "2026-08-20T09:30:00Z"},
		})
	}))

	four := 4
	device, err := svc.Add(context.Background(), AddDeviceInput{Name: "Raspberry Pi 5", Count: &four})
	require.NoError(t, err)
	assert.Equal(t, "dev_9", device.ID)
	assert.Equal(t, 4, *device.Count)
	assert.Equal(t, []string{"inventory_add"}, rec.EventNames())
}

func TestHTTPAddMalformedResponse(t *testing.T) {
	svc, rec := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"item": []any{}})
	}))

	_, err := svc.Add(context.Background(), AddDeviceInput{Name: "x"})
	require.EqualError(t, err, "Malformed add device response")
	assert.Equal(t, []string{"inventory_add_failed"}, rec.EventNames())
	require.Len(t, rec.Exceptions, 1)
}

func TestHTTPAddDoesNotRetry(t *testing.T) {
	calls := 0
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := svc.Add(context.Background(), AddDeviceInput{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestHTTPUpdateUsesPatch(t *testing.T) {
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/devices/dev_7", r.URL.Path)

		var input map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, map[string]any{"count": float64(2)}, input)

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "dev_7", "name": "kept", "count": 2, "updatedAt": "2026-08-21T12:00:00Z"},
		})
	}))

	two := 2
	device, err := svc.Update(context.Background(), "dev_7", UpdateDeviceInput{Count: &two})
	require.NoError(t, err)
	assert.Equal(t, "dev_7", device.ID)
	assert.Equal(t, 2, *device.Count)
}

func TestHTTPUpdateMalformedResponse(t *testing.T) {
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]any{})
	}))

	_, err := svc.Update(context.Background(), "dev_7", UpdateDeviceInput{})
	require.EqualError(t, err, "Malformed update device response")
}

func TestHTTPDelete(t *testing.T) {
	svc, rec := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/devices/dev_3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, svc.Delete(context.Background(), "dev_3"))
	assert.Equal(t, []string{"inventory_delete"}, rec.EventNames())
}

func TestHTTPDeleteFailure(t *testing.T) {
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"message": "Device with id dev_3 not found"})
	}))

	err := svc.Delete(context.Background(), "dev_3")
	require.EqualError(t, err, "404 Not Found - Device with id dev_3 not found")
}

func TestHTTPListErrorsArrayInOKBody(t *testing.T) {
	svc, _ := newHTTPService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"errors": []string{"index offline", "shard lost"}})
	}))

	_, err := svc.List(context.Background())
	require.EqualError(t, err, "index offline; shard lost")
}
