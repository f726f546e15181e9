// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"loandesk/internal/inventory"
	"loandesk/internal/reservation"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// statusForError maps service errors onto HTTP statuses by message shape.
// The services return plain errors, so matching on text is the contract.
func statusForError(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "cannot transition"):
		return http.StatusConflict
	case strings.Contains(msg, "required"), strings.Contains(msg, "cannot be"), strings.Contains(msg, "invalid"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) listDevices(w http.ResponseWriter, r *http.Request) {
	result, err := s.inventory.List(r.Context())
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  result.Items,
		"count": result.TotalCount,
	})
}

func (s *server) addDevice(w http.ResponseWriter, r *http.Request) {
	var input inventory.AddDeviceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	device, err := s.inventory.Add(r.Context(), input)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": device})
}

func (s *server) updateDevice(w http.ResponseWriter, r *http.Request) {
	var input inventory.UpdateDeviceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	device, err := s.inventory.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": device})
}

func (s *server) deleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) listReservations(w http.ResponseWriter, r *http.Request) {
	var filter []reservation.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st := reservation.Status(strings.TrimSpace(part))
			if !st.Valid() {
				writeError(w, http.StatusBadRequest, "invalid status filter: "+string(st))
				return
			}
			filter = append(filter, st)
		}
	}

	result, err := s.reservations.List(r.Context(), filter)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  result.Items,
		"count": result.TotalCount,
	})
}

func (s *server) createReservation(w http.ResponseWriter, r *http.Request) {
	var input reservation.CreateReservationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.reservations.Create(r.Context(), input)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": created})
}

func (s *server) updateReservationStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status reservation.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status: "+string(body.Status))
		return
	}

	updated, err := s.reservations.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": updated})
}

func (s *server) deleteReservation(w http.ResponseWriter, r *http.Request) {
	if err := s.reservations.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
