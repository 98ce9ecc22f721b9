package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5/middleware"
)

func TestContextAttrHandler(t *testing.T) {
	var buf bytes.Buffer
	base := newBaseHandler(&buf, "json", &slog.HandlerOptions{Level: slog.LevelDebug})
	l := slog.New(contextAttrHandler{h: base})

	vid := uuid.NewUUID()
	jid := uuid.NewUUID()
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	ctx = api_context.WithJobID(api_context.WithID(ctx, vid), jid)

	l.InfoContext(ctx, "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json log line %q: %v", buf.String(), err)
	}
	if rec["rid"] != "req-1" {
		t.Errorf("rid = %v; want req-1", rec["rid"])
	}
	if rec["video"] != vid.String() {
		t.Errorf("video = %v; want %s", rec["video"], vid)
	}
	if rec["job"] != jid.String() {
		t.Errorf("job = %v; want %s", rec["job"], jid)
	}
}

func TestContextAttrHandler_NoIDs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(contextAttrHandler{h: newBaseHandler(&buf, "json", nil)})
	l.InfoContext(context.Background(), "plain")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, k := range []string{"rid", "video", "job"} {
		if _, ok := rec[k]; ok {
			t.Errorf("unexpected attribute %q in %v", k, rec)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
