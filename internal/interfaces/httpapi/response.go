package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	msgRouteNotFound       = "Route not found"
	msgSomethingWentWrong  = "Something went wrong!"
	msgInternalServerError = "Internal server error"
	msgMatchNotFound       = "Match not found"
	msgMatchIDRequired     = "Match ID is required"
	msgInvalidPagination   = "Page and limit must be positive integers"
	msgInvalidMatchweek    = "Matchweek must be an integer"
	msgUnauthorized        = "Unauthorized"
	msgJobRunning          = "Sync job is already running"
	msgUnavailable         = "Service unavailable"
)

type errorBody struct {
	Error string `json:"error"`
}

type failureBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSON encodes into a pooled buffer before touching the response.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		buf.Reset()
		buf.SetString(`{"error":"` + msgInternalServerError + `"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeMessage(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, errorBody{Error: msg})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	status, msg := mapError(err)
	writeMessage(ctx, w, status, msg)
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, msgMatchNotFound
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, usecase.ErrConflict):
		return http.StatusConflict, msgJobRunning
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusInternalServerError, msgInternalServerError
	}
}
