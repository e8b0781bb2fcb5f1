package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("eleven-fantasy/internal/interfaces/httpapi")

// startSpan opens a child span for handler methods only. Helpers and requests
// without a parent span get the parent (usually a no-op) back.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, parent
	}
	return apiTracer.Start(ctx, name)
}

// untracedPaths are probed often enough that spans would only add noise.
var untracedPaths = map[string]struct{}{
	"/health":  {},
	"/healthz": {},
}

func shouldTraceRequest(path string) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !skip
}
