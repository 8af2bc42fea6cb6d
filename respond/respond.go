// Package respond writes the JSON bodies shared by the handlers and the
// middleware.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"notes-api/apperr"
	"notes-api/models"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error maps err to a status and {"msg": ...} body. Server-side failures are
// logged with their cause; the cause never reaches the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := apperr.Status(err)

	attrs := []any{
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		slog.DebugContext(r.Context(), "request rejected", attrs...)
	}

	JSON(w, status, models.MessageResponse{Msg: msg})
}

var (
	errEmptyBody    = errors.New("empty body")
	errTrailingData = errors.New("trailing data after JSON value")
)

// Decode reads a single JSON value of at most MaxBodyBytes into dst. Any
// failure, an empty body or trailing data included, is returned as a
// validation error carrying msg.
func Decode(w http.ResponseWriter, r *http.Request, dst any, msg string) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		err = errEmptyBody
	case err == nil:
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		slog.DebugContext(r.Context(), "invalid request body",
			"request_id", chiMiddleware.GetReqID(r.Context()),
			"error", err,
		)
		return apperr.Validation(msg)
	}
	return nil
}
