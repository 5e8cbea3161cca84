package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

// DefaultDownloadMirrors are the hosts a resolved get.php link may point at.
var DefaultDownloadMirrors = []string{"https://libgen.li", "https://libgen.gs", "https://libgen.la"}

var (
	md5Format  = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)
	keyPattern = regexp.MustCompile(`key=([^&]+)`)
)

// MirrorSelector picks one mirror from a non-empty list.
type MirrorSelector func(mirrors []string) string

// RandomMirror picks a mirror uniformly at random.
func RandomMirror(mirrors []string) string {
	return mirrors[rand.IntN(len(mirrors))]
}

// DownloadLinks resolves md5 hashes into direct download links.
type DownloadLinks interface {
	Resolve(ctx context.Context, md5 string) (string, error)
}

// DownloadResolver scrapes the mirror's ads page for the signed key and
// builds a get.php link on one of the download mirrors. Links are never cached.
type DownloadResolver struct {
	client  *upstream.Client
	base    string
	mirrors []string
	pick    MirrorSelector
	policy  upstream.Policy
}

// DownloadOption configures a DownloadResolver.
type DownloadOption func(*DownloadResolver)

// WithMirrorSelector replaces RandomMirror.
func WithMirrorSelector(pick MirrorSelector) DownloadOption {
	return func(r *DownloadResolver) { r.pick = pick }
}

// WithDownloadPolicy overrides the default 10s, 3 retries, 1s step policy.
func WithDownloadPolicy(p upstream.Policy) DownloadOption {
	return func(r *DownloadResolver) { r.policy = p }
}

// NewDownloadResolver returns a resolver reading ads.php from base.
func NewDownloadResolver(client *upstream.Client, base string, mirrors []string, opts ...DownloadOption) *DownloadResolver {
	if len(mirrors) == 0 {
		mirrors = DefaultDownloadMirrors
	}
	r := &DownloadResolver{
		client:  client,
		base:    strings.TrimSuffix(base, "/"),
		mirrors: mirrors,
		pick:    RandomMirror,
		policy:  upstream.Policy{Timeout: 10 * time.Second, Retries: 3, Interval: time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements DownloadLinks.
func (r *DownloadResolver) Resolve(ctx context.Context, md5 string) (string, error) {
	md5 = strings.TrimSpace(md5)
	if !md5Format.MatchString(md5) {
		metrics.RecordDownloadResolution("invalid")
		return "", ErrInvalidFormat
	}

	ctx, span := tracer.Start(ctx, "download.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("md5", md5))

	key, err := r.fetchKey(ctx, md5)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		result := "error"
		if errors.Is(err, ErrKeyNotFound) {
			result = "no_key"
		}
		metrics.RecordDownloadResolution(result)
		log.Warn().Err(err).Str("md5", md5).Msg("Download link resolution failed")
		return "", err
	}

	mirror := strings.TrimSuffix(r.pick(r.mirrors), "/")
	link := fmt.Sprintf("%s/get.php?md5=%s&key=%s", mirror, md5, key)
	metrics.RecordDownloadResolution("ok")
	log.Info().Str("md5", md5).Str("mirror", mirror).Msg("Download link resolved")
	return link, nil
}

func (r *DownloadResolver) fetchKey(ctx context.Context, md5 string) (string, error) {
	page := r.base + "/ads.php?md5=" + url.QueryEscape(md5)
	resp, err := r.client.Do(ctx, http.MethodGet, page, http.Header{"Accept": []string{"text/html"}}, r.policy)
	if err != nil {
		return "", fmt.Errorf("%w: fetch download page: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: download page not found", ErrKeyNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: download page returned %s", ErrUpstreamUnavailable, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse download page: %v", ErrUpstreamUnavailable, err)
	}
	return extractKey(doc)
}

// extractKey reads the key parameter of the first get.php anchor.
func extractKey(doc *goquery.Document) (string, error) {
	anchor := doc.Find(`a[href*="get.php"]`).First()
	if anchor.Length() == 0 {
		return "", fmt.Errorf("%w: no get.php link", ErrKeyNotFound)
	}
	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return "", fmt.Errorf("%w: get.php link has no href", ErrKeyNotFound)
	}
	m := keyPattern.FindStringSubmatch(href)
	if m == nil {
		return "", fmt.Errorf("%w: get.php link has no key", ErrKeyNotFound)
	}
	return m[1], nil
}
