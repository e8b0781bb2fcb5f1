package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestTracing)
	r.Use(RequestLogging(logger))
	r.Use(CORS(corsAllowedOrigins))
	r.Use(recoverPanic(logger))

	r.NotFound(handler.RouteNotFound)
	r.MethodNotAllowed(handler.RouteNotFound)

	registerSystemRoutes(r, handler)
	registerMatchRoutes(r, handler)
	registerInternalJobRoutes(r, handler, internalJobToken)

	return r
}
