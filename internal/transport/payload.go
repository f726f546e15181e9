// internal/transport/payload.go
package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// maxErrorDetail bounds how much of a non-JSON error body is carried into an
// error message.
const maxErrorDetail = 300

// ReadPayload consumes and closes the response body, enforcing the response
// contract: non-2xx responses and 2xx bodies carrying an errors array become
// errors, an empty body decodes as an empty object, and anything else must be
// valid JSON.
func ReadPayload(resp *http.Response) (any, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.New("Invalid JSON response")
	}

	if obj, ok := payload.(map[string]any); ok {
		if errs := stringValues(obj["errors"]); len(errs) > 0 {
			return nil, errors.New(strings.Join(errs, "; "))
		}
	}
	return payload, nil
}

// StatusError consumes and closes the response body and builds the error for
// a non-2xx response without decoding any payload. For 2xx responses it
// returns nil.
func StatusError(resp *http.Response) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		raw = nil
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	return statusError(resp, raw)
}

// statusError formats "{status} {statusText}", suffixed with " - {detail}"
// when the body yields one.
func statusError(resp *http.Response, raw []byte) error {
	msg := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if detail := errorDetail(resp.Header.Get("Content-Type"), raw); detail != "" {
		msg += " - " + detail
	}
	return errors.New(msg)
}

func errorDetail(contentType string, raw []byte) string {
	if strings.Contains(contentType, "application/json") {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err == nil {
			if msg, ok := obj["message"].(string); ok && msg != "" {
				return msg
			}
			if msg, ok := obj["error"].(string); ok && msg != "" {
				return msg
			}
		}
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorDetail {
		text = text[:maxErrorDetail]
	}
	return text
}

// ListEnvelope unpacks a list payload: either a {data: [...], count?: n}
// envelope or a bare array. A missing count defaults to the element count.
func ListEnvelope(payload any) ([]any, int, error) {
	switch v := payload.(type) {
	case []any:
		return v, len(v), nil
	case map[string]any:
		data, ok := v["data"].([]any)
		if !ok {
			return nil, 0, errors.New("Malformed list response")
		}
		count := len(data)
		if n, ok := v["count"].(float64); ok {
			count = int(n)
		}
		return data, count, nil
	default:
		return nil, 0, errors.New("Malformed list response")
	}
}

// ItemPayload resolves a single-entity payload: the value under "item" or
// "data" when present, otherwise the payload itself. Arrays and non-objects
// are treated as absent.
func ItemPayload(payload any) (map[string]any, bool) {
	resolved := payload
	if obj, ok := payload.(map[string]any); ok {
		if v, present := obj["item"]; present {
			resolved = v
		} else if v, present := obj["data"]; present {
			resolved = v
		}
	}

	item, ok := resolved.(map[string]any)
	return item, ok
}

func stringValues(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
