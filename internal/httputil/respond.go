package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Str("component", "http").Msg("Failed to encode response")
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: APIError{Code: code, Message: message}})
}

// WriteValidationError renders validator failures with per-field details.
func WriteValidationError(w http.ResponseWriter, err *validation.RequestValidationError) {
	apiErr := err.ToAPIError()
	WriteJSON(w, http.StatusBadRequest, errorEnvelope{Error: APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}})
}

// WriteRowValidationError reports a failed element of a batch body, adding its
// index to the details.
func WriteRowValidationError(w http.ResponseWriter, row int, err *validation.RequestValidationError) {
	apiErr := err.ToAPIError()
	details := map[string]any{"row": row}
	for k, v := range apiErr.Details {
		details[k] = v
	}
	WriteJSON(w, http.StatusBadRequest, errorEnvelope{Error: APIError{
		Code:    apiErr.Code,
		Message: fmt.Sprintf("rows[%d]: %s", row, apiErr.Message),
		Details: details,
	}})
}

// WriteInternal logs err with the request id and hides it from the client.
func WriteInternal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
}

// DecodeJSON reads a bounded JSON body and rejects unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// AddServerTiming appends a Server-Timing entry, e.g. "db;dur=12.3".
func AddServerTiming(w http.ResponseWriter, name string, d time.Duration) {
	w.Header().Add("Server-Timing", fmt.Sprintf("%s;dur=%.1f", name, float64(d.Microseconds())/1000))
}

// CacheControl sets a public max-age for read-only responses.
func CacheControl(w http.ResponseWriter, maxAge time.Duration) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
}

// SplitList merges repeated and comma separated query values: ?ward=1&ward=2,3.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
