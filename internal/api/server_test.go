package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/syntaxstudio/gateway/internal/engine"
	"github.com/syntaxstudio/gateway/internal/judge0"
	"github.com/syntaxstudio/gateway/internal/store"
)

// mockUpstream is a minimal Judge0-compatible endpoint for handler tests:
// synchronous submissions come back Accepted with stdout "1\n", async
// submissions get a fixed token whose result is immediately terminal.
func mockUpstream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			if r.URL.Query().Get("wait") == "true" {
				w.Write([]byte(`{"status":{"id":3,"description":"Accepted"},"stdout":"MQo=","time":"0.02","memory":1024}`))
				return
			}
			w.Write([]byte(`{"token":"tok-api"}`))
		case r.URL.Path == "/languages":
			w.Write([]byte(`[{"id":71,"name":"Python (3.8.1)"}]`))
		default:
			w.Write([]byte(`{"status":{"id":3,"description":"Accepted"},"stdout":"MQo="}`))
		}
	}
}

func newTestServer(t *testing.T, upstream http.Handler) (*Server, *engine.Engine) {
	t.Helper()

	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	reg := judge0.NewRegistry([]judge0.Endpoint{
		{URL: ts.URL, Host: "mock.test", Type: judge0.TypeCE, Priority: 1},
	})
	client := judge0.NewClient(reg, judge0.Credentials{CEToken: "t"}, judge0.ClientOptions{
		MaxPollAttempts: 10,
		PollInterval:    time.Millisecond,
	}, logger)
	eng := engine.NewEngine(s, client, logger)

	return NewServer(":0", s, client, eng, logger), eng
}

func TestPanicRecovery(t *testing.T) {
	srv, _ := newTestServer(t, mockUpstream())
	srv.Router().Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/panic")
	if err != nil {
		t.Fatalf("GET /panic: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, mockUpstream())

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	req, _ := http.NewRequest("OPTIONS", ts.URL+"/healthz", nil)
	req.Header.Set("Origin", "http://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS /healthz: %v", err)
	}
	defer resp.Body.Close()

	if v := resp.Header.Get("Access-Control-Allow-Origin"); v != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", v, "*")
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, mockUpstream())

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
