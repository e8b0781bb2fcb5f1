package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipOTelLog(t *testing.T) {
	if !shouldSkipOTelLog("http request", map[string]any{"path": "/health"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipOTelLog("http request", map[string]any{"path": "/api/matches/upcoming"}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if shouldSkipOTelLog("full sync completed", map[string]any{"path": "/health"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestBuildOTelLogAttributes_SortedKeys(t *testing.T) {
	attrs := buildOTelLogAttributes(map[string]any{"matchweek": int64(3), "event_id": "740600"})
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "event_id" || attrs[0].Value.AsString() != "740600" {
		t.Fatalf("unexpected first attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "matchweek" || attrs[1].Value.AsInt64() != 3 {
		t.Fatalf("unexpected second attribute: %+v", attrs[1])
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"updated":  int64(11),
		"finished": true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	if items := v.AsMap(); len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}

func TestOTelLogCore_RespectsLevel(t *testing.T) {
	core := newOTelLogCore("dev", zapcore.WarnLevel)
	if core.Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !core.Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error should be enabled at warn level")
	}

	child := core.With([]zapcore.Field{zap.String("job", "live_sync")})
	if err := child.Write(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "scheduled run failed"}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
}
