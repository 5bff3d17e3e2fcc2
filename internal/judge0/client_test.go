package judge0

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, reg *Registry) *Client {
	t.Helper()
	return NewClient(reg, Credentials{RapidAPIKey: "k", CEToken: "t"}, ClientOptions{
		MaxPollAttempts: 5,
		PollInterval:    time.Millisecond,
	}, discardLogger())
}

func singleEndpointRegistry(url string) *Registry {
	return NewRegistry([]Endpoint{
		{URL: url, Host: "mock.test", Type: TypeCE, Priority: 1},
	})
}

func TestExecuteSyncDecodesResult(t *testing.T) {
	var gotBody SubmissionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/submissions") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("wait"); got != "true" {
			t.Errorf("wait = %q, want true", got)
		}
		if got := r.URL.Query().Get("base64_encoded"); got != "true" {
			t.Errorf("base64_encoded = %q, want forced true", got)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"status":{"id":3,"description":"Accepted"},"stdout":"MQo="}`))
	}))
	defer ts.Close()

	client := newTestClient(t, singleEndpointRegistry(ts.URL))

	// Already-base64 print(1), exactly as a caller that pre-encoded would send.
	res, ep, err := client.Execute(context.Background(), SubmissionRequest{
		SourceCode:    "cHJpbnQoMSk=",
		LanguageID:    71,
		Base64Encoded: true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ep.Host != "mock.test" {
		t.Errorf("serving endpoint = %q, want mock.test", ep.Host)
	}
	if res.Status.ID != StatusAccepted {
		t.Errorf("status id = %d, want %d", res.Status.ID, StatusAccepted)
	}
	if res.Stdout == nil || *res.Stdout != "1\n" {
		t.Errorf("stdout = %v, want %q", res.Stdout, "1\n")
	}
	if gotBody.SourceCode != "cHJpbnQoMSk=" {
		t.Errorf("wire source_code = %q, want passed through unchanged", gotBody.SourceCode)
	}
	if !gotBody.Base64Encoded {
		t.Error("wire base64_encoded = false, want true")
	}
}

func TestSubmitReturnsTokenAndPinnedEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("wait"); got != "false" {
			t.Errorf("wait = %q, want false", got)
		}
		var body SubmissionRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.SourceCode != encodeBase64("print(1)") {
			t.Errorf("wire source_code = %q, want base64", body.SourceCode)
		}
		if body.Stdin != nil {
			t.Errorf("wire stdin = %v, want absent", body.Stdin)
		}
		w.Write([]byte(`{"token":"abc-123"}`))
	}))
	defer ts.Close()

	client := newTestClient(t, singleEndpointRegistry(ts.URL))

	token, ep, err := client.Submit(context.Background(), SubmissionRequest{
		SourceCode: "print(1)",
		LanguageID: 71,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if token != "abc-123" {
		t.Errorf("token = %q, want abc-123", token)
	}
	if ep.Host != "mock.test" {
		t.Errorf("pinned endpoint = %q, want mock.test", ep.Host)
	}
}

func TestSubmitMissingTokenIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := newTestClient(t, singleEndpointRegistry(ts.URL))

	_, _, err := client.Submit(context.Background(), SubmissionRequest{SourceCode: "x", LanguageID: 71})
	if err == nil {
		t.Fatal("expected error for response without token")
	}
	if !strings.Contains(err.Error(), "missing token") {
		t.Errorf("error = %v, want it to name the missing token", err)
	}
}

func TestFetchResultMissingStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stdout":"MQo="}`))
	}))
	defer ts.Close()

	client := newTestClient(t, singleEndpointRegistry(ts.URL))
	ep := client.Registry().ByPriority()[0]

	_, err := client.FetchResult(context.Background(), ep, "abc")
	if err == nil {
		t.Fatal("expected error for result without status")
	}
	if !strings.Contains(err.Error(), "missing status") {
		t.Errorf("error = %v, want it to name the missing status", err)
	}
}

func TestExecuteFallsBackToSecondEndpoint(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":{"id":3,"description":"Accepted"},"stdout":"b2s="}`))
	}))
	defer working.Close()

	reg := NewRegistry([]Endpoint{
		{URL: broken.URL, Host: "broken.test", Type: TypeCE, Priority: 1},
		{URL: working.URL, Host: "working.test", Type: TypeCE, Priority: 2},
	})
	client := newTestClient(t, reg)

	res, ep, err := client.Execute(context.Background(), SubmissionRequest{SourceCode: "x", LanguageID: 71})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ep.Host != "working.test" {
		t.Errorf("serving endpoint = %q, want fallback to working.test", ep.Host)
	}
	if res.Stdout == nil || *res.Stdout != "ok" {
		t.Errorf("stdout = %v, want %q", res.Stdout, "ok")
	}
}

func TestWaitForResultPollsPinnedEndpoint(t *testing.T) {
	fetches := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/submissions/tok-1") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fetches++
		if fetches < 3 {
			w.Write([]byte(`{"status":{"id":2,"description":"Processing"}}`))
			return
		}
		w.Write([]byte(`{"status":{"id":3,"description":"Accepted"},"stdout":"ZG9uZQ=="}`))
	}))
	defer ts.Close()

	client := newTestClient(t, singleEndpointRegistry(ts.URL))
	ep := client.Registry().ByPriority()[0]

	res, err := client.WaitForResult(context.Background(), ep, "tok-1")
	if err != nil {
		t.Fatalf("WaitForResult: %v", err)
	}

	if fetches != 3 {
		t.Errorf("fetches = %d, want 3", fetches)
	}
	if res.Stdout == nil || *res.Stdout != "done" {
		t.Errorf("stdout = %v, want %q", res.Stdout, "done")
	}
}

func TestLanguages(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/languages" {
			t.Errorf("path = %q, want /languages", r.URL.Path)
		}
		w.Write([]byte(`[{"id":71,"name":"Python (3.8.1)"},{"id":63,"name":"JavaScript (Node.js 12.14.0)"}]`))
	}))
	defer ts.Close()

	client := newTestClient(t, singleEndpointRegistry(ts.URL))

	langs, _, err := client.Languages(context.Background())
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}

	if len(langs) != 2 {
		t.Fatalf("len(langs) = %d, want 2", len(langs))
	}
	if langs[0].ID != 71 || langs[0].Name != "Python (3.8.1)" {
		t.Errorf("langs[0] = %+v, want Python 71", langs[0])
	}
}
