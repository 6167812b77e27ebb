// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConfigureAttachesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "foamd-test", Version: "v0.0.0-test"})

	l := Base()
	l.Info().Str("event", "test").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["service"] != "foamd-test" {
		t.Errorf("service = %v, want foamd-test", entry["service"])
	}
	if entry["version"] != "v0.0.0-test" {
		t.Errorf("version = %v, want v0.0.0-test", entry["version"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})

	l := WithComponent("index")
	l.Info().Msg("scan")

	if !strings.Contains(buf.String(), `"component":"index"`) {
		t.Errorf("missing component field: %s", buf.String())
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext = %q, want req-123", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext on empty ctx = %q, want empty", got)
	}
}

func TestFromContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})

	ctx := ContextWithJobID(ContextWithRequestID(context.Background(), "r1"), "j1")
	l := FromContext(ctx)
	l.Info().Msg("correlated")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"r1"`) || !strings.Contains(out, `"job_id":"j1"`) {
		t.Errorf("missing correlation fields: %s", out)
	}
}

func TestMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, `"status":404`) {
		t.Errorf("expected status 404 in log output, got: %s", out)
	}
	if !strings.Contains(out, `"event":"http.request"`) {
		t.Errorf("expected http.request event, got: %s", out)
	}
}
