package binary

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// countingTransport records every request and fails it.
type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, http.ErrHandlerTimeout
}

// releaseServer serves release assets keyed by URL path.
type releaseServer struct {
	*httptest.Server

	mu       sync.Mutex
	assets   map[string][]byte
	requests []string
}

func newReleaseServer(t *testing.T, assets map[string][]byte) *releaseServer {
	t.Helper()
	rs := &releaseServer{assets: assets}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r.URL.Path)
		body, ok := rs.assets[r.URL.Path]
		rs.mu.Unlock()

		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		if _, err := w.Write(body); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *releaseServer) setAsset(path string, body []byte) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.assets[path] = body
}

func (rs *releaseServer) requested() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.requests...)
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
