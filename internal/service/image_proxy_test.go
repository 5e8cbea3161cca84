package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

func TestAllowList_Allows(t *testing.T) {
	allow := NewAllowList(" Covers.Example.NET ", "")

	tests := []struct {
		host string
		want bool
	}{
		{"covers.openlibrary.org", true},
		{"COVERS.OPENLIBRARY.ORG", true},
		{"libgen.is", true},
		{"www.libgen.is", true},
		{"sub.goodreads.com", true},
		{"notgoodreads.com", false},
		{"goodreads.com.evil.example.com", false},
		{"evil.example.com", false},
		{"covers.example.net", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, allow.Allows(tt.host))
		})
	}

	assert.Len(t, allow.Domains(), len(DefaultAllowedDomains)+1)
	assert.Len(t, DefaultAllowedDomains, 13)
}

func TestImageProxy_Validate(t *testing.T) {
	p := NewImageProxy(NewAllowList(), time.Second)

	t.Run("allowed host", func(t *testing.T) {
		u, err := p.Validate("https://covers.openlibrary.org/b/isbn/9780441172719-M.jpg")
		require.NoError(t, err)
		assert.Equal(t, "covers.openlibrary.org", u.Hostname())
	})

	t.Run("still percent-encoded", func(t *testing.T) {
		u, err := p.Validate("https%3A%2F%2Fcovers.openlibrary.org%2Fb%2Fisbn%2F1-M.jpg")
		require.NoError(t, err)
		assert.Equal(t, "/b/isbn/1-M.jpg", u.Path)
	})

	t.Run("forbidden host", func(t *testing.T) {
		_, err := p.Validate("https://evil.example.com/x.jpg")

		assert.ErrorIs(t, err, ErrForbiddenDomain)
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "evil.example.com", de.Host)
	})

	for _, target := range []string{"ftp://libgen.is/covers/1.jpg", "/covers/1.jpg", "not a url", "https://%zz"} {
		t.Run("invalid "+target, func(t *testing.T) {
			_, err := p.Validate(target)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func newProxyUpstream(t *testing.T) (*httptest.Server, func() http.Header) {
	t.Helper()
	var (
		mu         sync.Mutex
		lastHeader http.Header
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/cover.jpg", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		lastHeader = r.Header.Clone()
		mu.Unlock()
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/logo.svg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/cover.jpg", http.StatusFound)
	})
	mux.HandleFunc("/escape", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://evil.example.com/x.jpg", http.StatusFound)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, func() http.Header {
		mu.Lock()
		defer mu.Unlock()
		return lastHeader
	}
}

func TestImageProxy_Fetch(t *testing.T) {
	srv, lastHeader := newProxyUpstream(t)
	p := NewImageProxy(NewAllowList("127.0.0.1"), 2*time.Second)

	t.Run("streams the image with browser headers", func(t *testing.T) {
		img, err := p.Fetch(context.Background(), srv.URL+"/cover.jpg")
		require.NoError(t, err)
		defer img.Body.Close()

		body, err := io.ReadAll(img.Body)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(body))
		assert.Equal(t, "image/jpeg", img.ContentType)

		h := lastHeader()
		assert.Contains(t, h.Get("User-Agent"), "Chrome/91")
		assert.Equal(t, "image/webp,image/apng,image/*,*/*;q=0.8", h.Get("Accept"))
		assert.Equal(t, "no-cache", h.Get("Pragma"))
		assert.Empty(t, h.Get("Referer"))
	})

	t.Run("redirect drops the referer", func(t *testing.T) {
		img, err := p.Fetch(context.Background(), srv.URL+"/moved")
		require.NoError(t, err)
		_ = img.Body.Close()

		assert.Empty(t, lastHeader().Get("Referer"))
	})

	t.Run("redirect off the allow-list is forbidden", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), srv.URL+"/escape")

		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "evil.example.com", de.Host)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), srv.URL+"/page.html")
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("svg is rejected", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), srv.URL+"/logo.svg")
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("upstream status is passed through", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), srv.URL+"/missing.jpg")

		var se *UpstreamStatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
		assert.Equal(t, "404 Not Found", se.Status)
	})

	t.Run("upstream 5xx is passed through", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), srv.URL+"/broken")

		var se *UpstreamStatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	})

	t.Run("forbidden target never reaches the network", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), "https://evil.example.com/x.jpg")
		assert.ErrorIs(t, err, ErrForbiddenDomain)
	})

	t.Run("unreachable host", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()

		_, err := p.Fetch(context.Background(), dead.URL+"/cover.jpg")
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}

func TestImageProxy_RefusedRedirectKeepsBreakerClosed(t *testing.T) {
	srv, _ := newProxyUpstream(t)
	breakers := circuitbreaker.NewGroup(circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
		Name:             "upstream",
		IsFailure:        upstream.IsBreakerFailure,
	})
	p := NewImageProxy(NewAllowList("127.0.0.1"), 2*time.Second, upstream.WithBreakers(breakers))

	for range 10 {
		_, err := p.Fetch(context.Background(), srv.URL+"/escape")
		require.ErrorIs(t, err, ErrForbiddenDomain)
	}

	assert.Equal(t, circuitbreaker.StateClosed, breakers.Get("127.0.0.1").State())

	img, err := p.Fetch(context.Background(), srv.URL+"/cover.jpg")
	require.NoError(t, err)
	_ = img.Body.Close()
}

func TestProxyURL(t *testing.T) {
	got := ProxyURL("https://books.example.com/", "https://covers.openlibrary.org/b/isbn/1-M.jpg")

	assert.Equal(t, "https://books.example.com/api/image-proxy?url=https%3A%2F%2Fcovers.openlibrary.org%2Fb%2Fisbn%2F1-M.jpg", got)
}
