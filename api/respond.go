package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/dayhire/internal/apperror"
	"github.com/garnizeh/dayhire/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("encode response", "err", err)
		}
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps the error taxonomy onto HTTP statuses. Validation failures
// carry their field map so the UI can render messages per field; store
// unavailability gets its own status so "couldn't ask" is never confused
// with "no data".
func writeError(w http.ResponseWriter, err error) {
	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: verr.Fields})
		return
	}

	var cerr *apperror.ConflictError
	if errors.As(err, &cerr) {
		writeJSON(w, http.StatusConflict, errorBody{Error: cerr.Error()})
		return
	}

	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, store.ErrNoDocument):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, apperror.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, apperror.ErrStoreUnavailable):
		logger.Error("store unavailable", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "store unavailable"})
	case errors.Is(err, apperror.ErrCorruptRecord):
		logger.Error("corrupt record", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	default:
		logger.Error("internal error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
