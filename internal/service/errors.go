package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

var (
	// ErrMissingIdentifier is returned when a cover query has no isbn, title or raw cover url.
	ErrMissingIdentifier = errors.New("isbn or title is required")
	// ErrForbiddenDomain is returned when a proxy target is outside the allow-list.
	ErrForbiddenDomain = errors.New("domain not allowed")
	// ErrInvalidURL is returned for proxy targets that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid image url")
	// ErrNotImage is returned when the proxied resource is not an image.
	ErrNotImage = errors.New("url does not point to an image")
	// ErrUpstreamUnavailable is returned when a third-party host could not be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrKeyNotFound is returned when the download page carries no usable key.
	ErrKeyNotFound = errors.New("download key not found")
	// ErrInvalidFormat is returned for md5 values that are not 32 hexadecimal characters.
	ErrInvalidFormat = errors.New("invalid md5 format")
	// ErrNotFound is returned when a lookup produced nothing.
	ErrNotFound = errors.New("not found")
	// ErrQueryRequired is returned for a blank search query.
	ErrQueryRequired = errors.New("query is required")
	// ErrQueryTooShort is returned for single-character search queries.
	ErrQueryTooShort = errors.New("search query must be at least 2 characters long")
)

// DomainError reports the host that failed the allow-list check.
type DomainError struct {
	Host string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain not allowed: %s", e.Host)
}

// Unwrap makes errors.Is hold for both ErrForbiddenDomain and
// upstream.ErrPolicy, so a refused host never counts against a breaker.
func (e *DomainError) Unwrap() []error {
	return []error{ErrForbiddenDomain, upstream.ErrPolicy}
}

// UpstreamStatusError carries a non-success upstream status that is passed
// through to the client unchanged.
type UpstreamStatusError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamStatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return "upstream returned " + status
}
