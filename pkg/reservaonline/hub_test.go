package reservaonline

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// recordedRequest is what the fake hub saw for one call.
type recordedRequest struct {
	Method     string
	Path       string
	RequestURI string
	RawQuery   string
	Header     http.Header
	Body       []byte
}

// fakeHub records requests and answers through a caller-provided function.
type fakeHub struct {
	mu       sync.Mutex
	requests []recordedRequest
	reply    func(req recordedRequest) (int, string)
	srv      *httptest.Server
}

func newFakeHub(t *testing.T, reply func(req recordedRequest) (int, string)) *fakeHub {
	t.Helper()
	h := &fakeHub{reply: reply}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req := recordedRequest{
			Method:     r.Method,
			Path:       r.URL.Path,
			RequestURI: r.RequestURI,
			RawQuery:   r.URL.RawQuery,
			Header:     r.Header.Clone(),
			Body:       body,
		}
		h.mu.Lock()
		h.requests = append(h.requests, req)
		h.mu.Unlock()

		status, payload := h.reply(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *fakeHub) last(t *testing.T) recordedRequest {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.requests) == 0 {
		t.Fatalf("hub received no requests")
	}
	return h.requests[len(h.requests)-1]
}

func (h *fakeHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.requests)
}

func newTestClient(t *testing.T, hub *fakeHub, cfg Config) *Client {
	t.Helper()
	if cfg.Token == "" {
		cfg.Token = "tok-default"
	}
	cfg.BaseURL = hub.srv.URL
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func okJSON(body string) func(recordedRequest) (int, string) {
	return func(recordedRequest) (int, string) { return http.StatusOK, body }
}
