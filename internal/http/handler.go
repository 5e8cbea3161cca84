// Package http exposes the library service over HTTP: cover lookup, the
// image proxy, download links, catalog search, metadata and diagnostics.
package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/i18n"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
)

// Cache-Control values served by the API.
const (
	coverCacheControl  = "public, s-maxage=604800, stale-while-revalidate=604800"
	imageCacheControl  = "public, max-age=86400, s-maxage=86400, stale-while-revalidate=604800"
	searchCacheControl = "public, s-maxage=300, stale-while-revalidate=600"
)

// CacheStatter reports the contents of one server-side cache.
type CacheStatter interface {
	Stats() cache.Stats
}

// BreakerStatter reports the breakers guarding upstream hosts and stores.
type BreakerStatter interface {
	Stats() []circuitbreaker.Stats
}

// Handler provides the HTTP handlers for the /api routes.
type Handler struct {
	covers        service.CoverLookup
	images        service.ImageFetcher
	downloads     service.DownloadLinks
	searcher      service.BookSearcher
	metadata      service.MetadataLookup
	activity      service.ActivityLog
	caches        []CacheStatter
	breakers      []BreakerStatter
	publicBaseURL string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithActivityLog enables GET /api/activity.
func WithActivityLog(al service.ActivityLog) HandlerOption {
	return func(h *Handler) {
		h.activity = al
	}
}

// WithCacheStats adds caches to GET /api/cache/stats.
func WithCacheStats(caches ...CacheStatter) HandlerOption {
	return func(h *Handler) {
		h.caches = append(h.caches, caches...)
	}
}

// WithBreakerStats adds breaker groups to GET /api/cache/stats.
func WithBreakerStats(breakers ...BreakerStatter) HandlerOption {
	return func(h *Handler) {
		h.breakers = append(h.breakers, breakers...)
	}
}

// WithPublicBaseURL fixes the origin used in proxied cover URLs instead of
// deriving it from request headers.
func WithPublicBaseURL(base string) HandlerOption {
	return func(h *Handler) {
		h.publicBaseURL = strings.TrimSuffix(strings.TrimSpace(base), "/")
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(
	covers service.CoverLookup,
	images service.ImageFetcher,
	downloads service.DownloadLinks,
	searcher service.BookSearcher,
	metadata service.MetadataLookup,
	opts ...HandlerOption,
) *Handler {
	h := &Handler{
		covers:    covers,
		images:    images,
		downloads: downloads,
		searcher:  searcher,
		metadata:  metadata,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// baseURL returns the origin the browser used to reach the service.
// X-Forwarded-* headers win over Host so links survive a reverse proxy.
func (h *Handler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}

	proto := firstHeaderValue(c.GetHeader("X-Forwarded-Proto"))
	if proto == "" {
		proto = "http"
		if c.Request.TLS != nil {
			proto = "https"
		}
	}
	host := firstHeaderValue(c.GetHeader("X-Forwarded-Host"))
	if host == "" {
		host = c.Request.Host
	}
	return proto + "://" + host
}

// firstHeaderValue returns the first element of a comma-separated header.
func firstHeaderValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(c *gin.Context) {
	NewResponseBuilder(c).Error(http.StatusMethodNotAllowed, i18n.ErrKeyMethodNotAllowed, nil)
}
