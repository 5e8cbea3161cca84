package upstream

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
)

// NewTransport returns a pooled transport shared by all outbound clients.
// Cover hosts are hit with many small HEAD requests, so idle connections per
// host are kept generous.
func NewTransport() *http.Transport {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
	if err := http2.ConfigureTransport(tr); err != nil {
		log.Warn().Err(err).Msg("HTTP/2 transport configuration failed, using HTTP/1.1")
	}
	return tr
}
