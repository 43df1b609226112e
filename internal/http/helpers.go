package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dinamifin/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to status codes: missing records are 404,
// validation failures are 400, anything else is a 500 with a generic body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownRecordType):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// pathRecordType parses the {type} path segment.
func pathRecordType(r *http.Request) (core.RecordType, error) {
	t := core.RecordType(strings.TrimSpace(r.PathValue("type")))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownRecordType, t)
	}
	return t, nil
}

// requestNow returns the reference instant for period math. An explicit
// now query parameter (YYYY-MM-DD) pins it for reproducible reads.
func (s *Server) requestNow(r *http.Request) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("now"))
	if v == "" {
		return s.now(), nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

// requestWindow returns the trailing window from the period query
// parameter, defaulting to six months.
func requestWindow(r *http.Request) (core.Window, error) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	if v == "" {
		return core.Window6Months, nil
	}
	w := core.Window(v)
	if !w.Valid() {
		return "", fmt.Errorf("%w: unknown window %q", core.ErrInvalidDate, v)
	}
	return w, nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
