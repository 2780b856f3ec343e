package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"shipment-consolidation-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON enforces a single, strictly matching JSON object body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeDomainError maps the engine's error taxonomy onto HTTP statuses:
// validation 400, unknown ids 404, commit-time conflicts 409, anything else
// 500 with the detail kept in the server log.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var classMismatch *domain.ClassMismatchError
	var capacity *domain.CapacityExceededError

	switch {
	case errors.As(err, &classMismatch),
		errors.As(err, &capacity),
		errors.Is(err, domain.ErrIncompleteRoute),
		errors.Is(err, domain.ErrMissingDeliveryClass),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrNotReadyForCreation),
		errors.Is(err, domain.ErrUnknownRoute),
		errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, r, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrUnknownShipment),
		errors.Is(err, domain.ErrUnknownVehicle),
		errors.Is(err, domain.ErrUnknownSession),
		errors.Is(err, domain.ErrNoVehicleAvailable):
		writeError(w, r, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrVehicleTaken):
		writeError(w, r, http.StatusConflict, err.Error())

	default:
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
