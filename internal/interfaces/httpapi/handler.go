package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/riskibarqy/eleven-fantasy/internal/domain/match"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
)

const healthMessage = "Eleven Fantasy Backend is running"

type MatchQueries interface {
	ListUpcoming(ctx context.Context) ([]match.Match, error)
	ListByMatchweek(ctx context.Context, week *int) ([]match.Match, error)
	ListByStatus(ctx context.Context, input usecase.ListByStatusInput) (usecase.MatchPage, error)
	GetByID(ctx context.Context, matchID string) (usecase.MatchDetail, error)
}

// SyncTrigger runs one guarded sync pass on demand.
type SyncTrigger interface {
	RunFull(ctx context.Context) (usecase.FullSyncResult, error)
	RunLive(ctx context.Context) (usecase.LiveSyncResult, error)
}

type Handler struct {
	matches MatchQueries
	sync    SyncTrigger
	logger  *logging.Logger
	now     func() time.Time
}

func NewHandler(matches MatchQueries, sync SyncTrigger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		matches: matches,
		sync:    sync,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, healthDTO{
		Status:    "OK",
		Message:   healthMessage,
		Timestamp: formatTime(h.now()),
	})
}

func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcoming")
	defer span.End()

	items, err := h.matches.ListUpcoming(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get upcoming matches failed", "error", err)
		writeMessage(ctx, w, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchListResponse{
		Success: true,
		Length:  len(items),
		Data:    matchesToDTO(items),
	})
}

func (h *Handler) ListByMatchweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListByMatchweek")
	defer span.End()

	week, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "matchweek")))
	if err != nil {
		writeMessage(ctx, w, http.StatusBadRequest, msgInvalidMatchweek)
		return
	}

	items, err := h.matches.ListByMatchweek(ctx, &week)
	if err != nil {
		h.logger.ErrorContext(ctx, "get matches by matchweek failed", "matchweek", week, "error", err)
		writeMessage(ctx, w, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchListResponse{
		Success: true,
		Length:  len(items),
		Data:    matchesToDTO(items),
	})
}

func (h *Handler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListByStatus")
	defer span.End()

	query := r.URL.Query()
	page, pageErr := parseOptionalInt(query.Get("page"))
	limit, limitErr := parseOptionalInt(query.Get("limit"))
	if pageErr != nil || limitErr != nil {
		writeJSON(ctx, w, http.StatusBadRequest, failureBody{Success: false, Message: msgInvalidPagination})
		return
	}

	status := chi.URLParam(r, "status")
	result, err := h.matches.ListByStatus(ctx, usecase.ListByStatusInput{
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			writeJSON(ctx, w, http.StatusBadRequest, failureBody{Success: false, Message: msgInvalidPagination})
			return
		}
		h.logger.ErrorContext(ctx, "get matches by status failed", "status", status, "error", err)
		writeMessage(ctx, w, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchPageResponse{
		Success:    true,
		Length:     len(result.Matches),
		Pagination: paginationToDTO(result.Pagination),
		Data:       matchesToDTO(result.Matches),
	})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(chi.URLParam(r, "id"))
	if matchID == "" {
		writeMessage(ctx, w, http.StatusBadRequest, msgMatchIDRequired)
		return
	}

	detail, err := h.matches.GetByID(ctx, matchID)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNotFound):
		writeMessage(ctx, w, http.StatusNotFound, msgMatchNotFound)
		return
	case errors.Is(err, usecase.ErrInvalidInput):
		writeMessage(ctx, w, http.StatusBadRequest, msgMatchIDRequired)
		return
	default:
		h.logger.ErrorContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeMessage(ctx, w, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchDetailResponse{
		Success: true,
		Match:   matchDetailToDTO(detail),
	})
}

// RunFullSync runs a guarded full pass. The pass is detached from the request
// so a client disconnect or write timeout does not abort it halfway.
func (h *Handler) RunFullSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFullSync")
	defer span.End()

	if h.sync == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.sync.RunFull(context.WithoutCancel(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "run full sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, syncResponse{Success: true, Data: result})
}

func (h *Handler) RunLiveSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveSync")
	defer span.End()

	if h.sync == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.sync.RunLive(context.WithoutCancel(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "run live sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, syncResponse{Success: true, Data: result})
}

func (h *Handler) RouteNotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(r.Context(), w, http.StatusNotFound, msgRouteNotFound)
}

// parseOptionalInt returns nil for an absent value.
func parseOptionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
