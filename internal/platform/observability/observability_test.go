package observability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/schikamarun/christmas-cards/internal/platform/requestctx"
)

func TestParseCloudTraceContext(t *testing.T) {
	cases := []struct {
		header  string
		ok      bool
		span    string
		sampled bool
	}{
		{"105445aa7843bc8bf206b12000100000/1;o=1", true, "0000000000000001", true},
		{"105445aa7843bc8bf206b12000100000/00f067aa0ba902b7;o=0", true, "00f067aa0ba902b7", false},
		{"105445aa7843bc8bf206b12000100000/12345", true, "0000000000003039", false},
		{"", false, "", false},
		{"short/1", false, "", false},
		{"105445aa7843bc8bf206b12000100000/0", false, "", false},
		{"105445aa7843bc8bf206b12000100000/xyz", false, "", false},
	}
	for _, tc := range cases {
		spanCtx, ok := parseCloudTraceContext(tc.header)
		if ok != tc.ok {
			t.Fatalf("parseCloudTraceContext(%q) ok = %v, want %v", tc.header, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if spanCtx.SpanID().String() != tc.span || spanCtx.IsSampled() != tc.sampled {
			t.Fatalf("parseCloudTraceContext(%q) = %s sampled=%v", tc.header, spanCtx.SpanID(), spanCtx.IsSampled())
		}
	}
}

func TestFormatCloudTraceHeaderRoundTrip(t *testing.T) {
	original, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/4242;o=1")
	if !ok {
		t.Fatalf("expected header to parse")
	}
	formatted := formatCloudTraceHeader(original)
	if formatted != "105445aa7843bc8bf206b12000100000/4242;o=1" {
		t.Fatalf("unexpected header %q", formatted)
	}
}

func TestTraceMiddlewareStoresTraceInfo(t *testing.T) {
	var info requestctx.TraceInfo
	handler := TraceMiddleware("cards-prod")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, _ = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(cloudTraceHeader, "105445aa7843bc8bf206b12000100000/1;o=1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if info.TraceID != "105445aa7843bc8bf206b12000100000" {
		t.Fatalf("expected incoming trace id to be continued, got %q", info.TraceID)
	}
	if info.ProjectID != "cards-prod" {
		t.Fatalf("unexpected project %q", info.ProjectID)
	}
}

func TestRequestLoggerMiddlewareLogsFragment(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := InjectLoggerMiddleware(zap.New(core))(RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/resolve?fragment=%23%2Fanna", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level for 4xx, got %s", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["fragment"] != "#/anna" {
		t.Fatalf("expected fragment field, got %v", fields["fragment"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("unexpected status field %v", fields["status"])
	}
}

func TestRequestLoggerMiddlewareLogsResolvedCard(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := InjectLoggerMiddleware(zap.New(core))(RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestctx.SetCard(r.Context(), requestctx.Card{
			Kind:           "recipient",
			CollectionSlug: "xmas25",
			RecipientSlug:  "anna\nforged",
			Fragment:       "#/collection/xmas25/anna",
		})
		w.WriteHeader(http.StatusOK)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cards?route=anna", nil))

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["fragment"] != "anna" {
		t.Fatalf("expected raw fragment field, got %v", fields["fragment"])
	}
	if fields["card.kind"] != "recipient" || fields["card.collection"] != "xmas25" {
		t.Fatalf("unexpected card fields %v", fields)
	}
	if fields["card.recipient"] != "annaforged" {
		t.Fatalf("expected control characters stripped, got %q", fields["card.recipient"])
	}
	if fields["card.fragment"] != "#/collection/xmas25/anna" {
		t.Fatalf("unexpected canonical fragment %v", fields["card.fragment"])
	}
}

func TestRequestLoggerMiddlewareOmitsCardWhenUnresolved(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := InjectLoggerMiddleware(zap.New(core))(RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["card.kind"]; ok {
		t.Fatalf("expected no card fields for a non-card request")
	}
}

func TestRecoveryMiddlewareWritesEnvelope(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := RecoveryMiddleware(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal_server_error" {
		t.Fatalf("unexpected body %v", body)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected panic to be logged once, got %d", logs.Len())
	}
}

func TestSanitizeFragment(t *testing.T) {
	got := SanitizeFragment("#/anna\n\x00" + strings.Repeat("x", 200))
	if strings.ContainsAny(got, "\n\x00") {
		t.Fatalf("expected control characters to be removed: %q", got)
	}
	if len([]rune(got)) != fragmentLimit {
		t.Fatalf("expected fragment to be truncated, got %d runes", len([]rune(got)))
	}

	wide := SanitizeFragment("#/" + strings.Repeat("🎄", 200))
	if !utf8.ValidString(wide) || utf8.RuneCountInString(wide) != fragmentLimit {
		t.Fatalf("expected truncation on rune boundaries, got %d runes", utf8.RuneCountInString(wide))
	}
	if cleanPath("") != "/" {
		t.Fatalf("expected empty path to log as /")
	}
}

