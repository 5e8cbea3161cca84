package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

// DefaultAllowedDomains are the hosts (and their subdomains) the image proxy
// fetches from.
var DefaultAllowedDomains = []string{
	"libgen.is",
	"covers.openlibrary.org",
	"books.google.com",
	"images-na.ssl-images-amazon.com",
	"bookcover.longitood.com",
	"i.gr-assets.com",
	"images.gr-assets.com",
	"s.gr-assets.com",
	"goodreads.com",
	"images-amazon.com",
	"ssl-images-amazon.com",
	"m.media-amazon.com",
	"images.amazon.com",
}

const maxRedirects = 10

// AllowList is an immutable set of permitted proxy hosts.
type AllowList struct {
	domains []string
}

// NewAllowList returns DefaultAllowedDomains plus extra.
func NewAllowList(extra ...string) AllowList {
	domains := slices.Clone(DefaultAllowedDomains)
	for _, d := range extra {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && !slices.Contains(domains, d) {
			domains = append(domains, d)
		}
	}
	return AllowList{domains: domains}
}

// Allows reports whether host is a listed domain or a subdomain of one.
func (a AllowList) Allows(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return false
	}
	for _, d := range a.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Domains returns a copy of the allowed domains.
func (a AllowList) Domains() []string {
	return slices.Clone(a.domains)
}

// Image is an upstream image ready to be streamed. The caller closes Body.
type Image struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// ImageFetcher fetches allow-listed images.
type ImageFetcher interface {
	Fetch(ctx context.Context, target string) (*Image, error)
}

// ImageProxy fetches images from allow-listed hosts on behalf of the browser.
type ImageProxy struct {
	allow   AllowList
	client  *upstream.Client
	timeout time.Duration
}

// NewImageProxy returns a proxy bound by allow. opts configure the upstream
// client; the redirect policy is always the proxy's own.
func NewImageProxy(allow AllowList, timeout time.Duration, opts ...upstream.Option) *ImageProxy {
	p := &ImageProxy{allow: allow, timeout: timeout}
	hc := &http.Client{
		Transport:     upstream.NewTransport(),
		CheckRedirect: p.checkRedirect,
	}
	p.client = upstream.NewClient(append([]upstream.Option{upstream.WithHTTPClient(hc)}, opts...)...)
	return p
}

// Validate parses target, decoding one remaining level of percent-encoding,
// and checks it against the allow-list.
func (p *ImageProxy) Validate(target string) (*url.URL, error) {
	decoded, err := url.PathUnescape(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	u, err := url.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	if !p.allow.Allows(u.Hostname()) {
		return nil, &DomainError{Host: u.Hostname()}
	}
	return u, nil
}

// Fetch implements ImageFetcher.
func (p *ImageProxy) Fetch(ctx context.Context, target string) (*Image, error) {
	u, err := p.Validate(target)
	if err != nil {
		return nil, err
	}

	header := http.Header{
		"Accept":          []string{"image/webp,image/apng,image/*,*/*;q=0.8"},
		"Accept-Language": []string{"en-US,en;q=0.9"},
		"Cache-Control":   []string{"no-cache"},
		"Pragma":          []string{"no-cache"},
	}
	resp, err := p.client.Do(ctx, http.MethodGet, u.String(), header, upstream.Policy{Timeout: p.timeout})
	if err != nil {
		var de *DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		var se *upstream.StatusError
		if errors.As(err, &se) {
			return nil, &UpstreamStatusError{StatusCode: se.StatusCode}
		}
		log.Warn().Err(err).Str("url", u.Redacted()).Msg("Image fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isRasterImage(contentType) {
		_ = resp.Body.Close()
		return nil, ErrNotImage
	}

	return &Image{
		Body:          resp.Body,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
	}, nil
}

// isRasterImage accepts image/* except SVG.
func isRasterImage(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "image/svg")
}

// checkRedirect keeps redirects on allow-listed hosts and never forwards a
// Referer.
func (p *ImageProxy) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d redirects", upstream.ErrPolicy, maxRedirects)
	}
	if !p.allow.Allows(req.URL.Hostname()) {
		return &DomainError{Host: req.URL.Hostname()}
	}
	req.Header.Del("Referer")
	return nil
}

// ProxyURL returns the same-origin proxy form of target under base.
func ProxyURL(base, target string) string {
	return strings.TrimSuffix(base, "/") + "/api/image-proxy?url=" + encodeComponent(target)
}
