package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

// MinImageBytes rejects tiny placeholder images some hosts serve for unknown covers.
const MinImageBytes = 1000

const maxJSONBytes = 4 << 20

// ProbeImage reports whether rawURL answers a HEAD request with a real image:
// a 2xx status, an image/* content type and, when the host reports a length,
// more than MinImageBytes. Any error counts as "not an image".
func (c *Client) ProbeImage(ctx context.Context, rawURL string, timeout time.Duration) bool {
	host := hostOf(rawURL)
	resp, err := c.Do(ctx, http.MethodHead, rawURL, nil, Policy{Timeout: timeout})
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Msg("Image probe failed")
		metrics.RecordImageProbe(host, false)
		return false
	}
	defer drain(resp.Body)

	ok := IsImageResponse(resp)
	metrics.RecordImageProbe(host, ok)
	return ok
}

// IsImageResponse applies the image acceptance rules to a response's headers.
func IsImageResponse(resp *http.Response) bool {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}
	if !strings.HasPrefix(strings.ToLower(resp.Header.Get("Content-Type")), "image/") {
		return false
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if err != nil || n <= MinImageBytes {
			return false
		}
	}
	return true
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid"
	}
	return u.Hostname()
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(io.LimitReader(r, maxJSONBytes)).Decode(v)
}
