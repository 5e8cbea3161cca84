package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/i18n"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
)

// countingReader counts the bytes streamed to the client.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// ImageProxy handles GET /api/image-proxy.
//
// @Summary      Proxy a cover image
// @Description  Streams an image from an allow-listed host so the browser loads every cover from this origin. The url may still be percent-encoded once. Redirects are only followed to allow-listed hosts and no Referer is sent.
// @Tags         Covers
// @Produce      image/jpeg,image/png,image/webp,image/gif
// @Produce      json
// @Param        url query string true "Absolute image URL on an allow-listed host"
// @Success      200 {file} binary "Image bytes with the upstream Content-Type"
// @Failure      400 {object} dto.ErrorResponse "Missing or invalid url, or not an image"
// @Failure      403 {object} dto.ErrorResponse "Domain not allowed"
// @Failure      404 {object} dto.ErrorResponse "Upstream status passed through"
// @Failure      502 {object} dto.ErrorResponse "Upstream unreachable"
// @Router       /api/image-proxy [get]
func (h *Handler) ImageProxy(c *gin.Context) {
	builder := NewResponseBuilder(c)

	target := strings.TrimSpace(c.Query("url"))
	if target == "" {
		metrics.RecordImageProxy("invalid", 0)
		builder.Error(http.StatusBadRequest, i18n.ErrKeyURLRequired, nil)
		return
	}

	img, err := h.images.Fetch(c.Request.Context(), target)
	if err != nil {
		h.imageProxyError(builder, err)
		return
	}
	defer img.Body.Close()

	c.Header("Cache-Control", imageCacheControl)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", "default-src 'none'; sandbox")

	body := &countingReader{r: img.Body}
	c.DataFromReader(http.StatusOK, img.ContentLength, img.ContentType, body, nil)
	metrics.RecordImageProxy("ok", body.n)
}

func (h *Handler) imageProxyError(builder *ResponseBuilder, err error) {
	var domainErr *service.DomainError
	var statusErr *service.UpstreamStatusError

	switch {
	case errors.As(err, &domainErr):
		metrics.RecordImageProxy("forbidden", 0)
		builder.Errorf(http.StatusForbidden, i18n.ErrKeyForbiddenDomain, err, domainErr.Host)
	case errors.Is(err, service.ErrInvalidURL):
		metrics.RecordImageProxy("invalid", 0)
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidURL, err)
	case errors.As(err, &statusErr):
		metrics.RecordImageProxy("upstream_status", 0)
		builder.Errorf(statusErr.StatusCode, i18n.ErrKeyUpstreamStatus, err, upstreamStatusText(statusErr))
	case errors.Is(err, service.ErrNotImage):
		metrics.RecordImageProxy("not_image", 0)
		builder.Error(http.StatusBadRequest, i18n.ErrKeyNotImage, err)
	default:
		metrics.RecordImageProxy("error", 0)
		builder.Error(http.StatusBadGateway, i18n.ErrKeyProxyFailed, err)
	}
}

// upstreamStatusText returns the reason phrase the upstream sent, e.g. "Not Found".
func upstreamStatusText(e *service.UpstreamStatusError) string {
	if _, reason, ok := strings.Cut(e.Status, " "); ok && reason != "" {
		return reason
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}
