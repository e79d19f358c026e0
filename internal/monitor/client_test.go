package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgallion1/statflat/internal/record"
)

const statsXML = `<statistics><statistic><name>cpu.user</name><unit>pct</unit></statistic>` +
	`<statistic><name>cpu.sys</name><unit>pct</unit></statistic></statistics>`

func newTestClient(t *testing.T, handler http.HandlerFunc, selector string) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewTLSServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient(Options{
		BaseURL:     ts.URL,
		Username:    "monitor",
		Password:    "secret",
		InsecureTLS: true,
		Timeout:     5 * time.Second,
		Selector:    selector,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, ts
}

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotAccept string
	var gotUser, gotPass string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(statsXML))
	}, "")

	rec, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotPath != StatsPath {
		t.Errorf("expected path %q, got %q", StatsPath, gotPath)
	}
	if gotAccept != "application/xml" {
		t.Errorf("expected xml accept header, got %q", gotAccept)
	}
	if gotUser != "monitor" || gotPass != "secret" {
		t.Errorf("expected basic credentials, got %q/%q", gotUser, gotPass)
	}

	// The document element is unwrapped: statistic is a top-level field.
	v, ok := rec.Get("statistic")
	if !ok {
		t.Fatal("statistic not found")
	}
	list, ok := v.(record.List)
	if !ok {
		t.Fatalf("expected list, got %T", v)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 statistics, got %d", len(list))
	}
}

func TestClient_StatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}, "")

	_, err := c.Fetch(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", statusErr.Code)
	}
	if statusErr.Body != "maintenance" {
		t.Errorf("expected trimmed body, got %q", statusErr.Body)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}, "")

	_, err := c.Fetch(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", statusErr.Code)
	}
}

func TestClient_MalformedXML(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<statistics><statistic></statistics>`))
	}, "")

	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected parse error for malformed document")
	}
}

func TestClient_HTMLStatusPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head></head><body><div id="cpu">42</div></body></html>`))
	}, "")

	rec, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, ok := rec.Get("body"); !ok {
		t.Error("expected html structuring to surface the body element")
	}
}

func TestClient_Selector(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<response><info>v1</info>` + statsXML + `</response>`))
	}, "//statistics")

	rec, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, ok := rec.Get("statistic"); !ok {
		t.Error("expected selector to narrow structuring to the statistics subtree")
	}
	if _, ok := rec.Get("info"); ok {
		t.Error("fields outside the selected subtree must not appear")
	}
}

func TestClient_SelectorNoMatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(statsXML))
	}, "//nosuch")

	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error when the selector matches nothing")
	}
}

func TestNewClient_InvalidSelector(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "https://localhost:9443", Selector: "///"})
	if err == nil {
		t.Fatal("expected error for invalid selector")
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}

func TestClient_CertValidationEnforcedByDefault(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statsXML))
	}))
	t.Cleanup(ts.Close)

	c, err := NewClient(Options{BaseURL: ts.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected TLS failure against a self-signed certificate")
	}
}
