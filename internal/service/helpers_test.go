package service

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

// fakeHost is an HTTPS server that answers image paths with a valid JPEG,
// JSON paths with a canned body and everything else with 404.
type fakeHost struct {
	srv *httptest.Server

	mu       sync.Mutex
	images   map[string]bool
	json     map[string]string
	requests []string
}

func newFakeHost(t *testing.T) *fakeHost {
	t.Helper()
	h := &fakeHost{
		images: make(map[string]bool),
		json:   make(map[string]string),
	}
	h.srv = httptest.NewTLSServer(http.HandlerFunc(h.serve))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *fakeHost) serve(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.requests = append(h.requests, r.Method+" "+r.URL.RequestURI())
	isImage := h.images[r.URL.Path]
	body, isJSON := h.json[r.URL.Path]
	h.mu.Unlock()

	switch {
	case isImage:
		img := strings.Repeat("x", 2048)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(img)))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write([]byte(img))
		}
	case isJSON:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}

func (h *fakeHost) addImage(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.images[path] = true
}

func (h *fakeHost) addJSON(path, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.json[path] = body
}

func (h *fakeHost) requested(prefix string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.requests {
		if strings.HasPrefix(r, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func (h *fakeHost) url(path string) string {
	return h.srv.URL + path
}

func (h *fakeHost) client() *upstream.Client {
	return upstream.NewClient(upstream.WithHTTPClient(h.srv.Client()))
}

// sources points every cover source at a distinct prefix on the host.
func (h *fakeHost) sources() CoverSources {
	return CoverSources{
		LibGenCovers:      h.url("/covers"),
		OpenLibraryCovers: h.url("/olc"),
		OpenLibrarySearch: h.url("/ols"),
		GoogleBooks:       h.url("/gb"),
		Longitood:         h.url("/lt"),
	}
}

func testStrategyConfig() StrategyConfig {
	return StrategyConfig{
		ProbeTimeout: 2 * time.Second,
		API:          upstream.Policy{Timeout: 2 * time.Second},
		GoogleBooks:  upstream.Policy{Timeout: 2 * time.Second},
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
