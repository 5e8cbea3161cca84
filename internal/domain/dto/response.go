package dto

import (
	"net/http"
	"time"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeForbidden indicates a target outside the allow-list.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeMethodNotAllowed indicates a wrong HTTP method.
	ErrCodeMethodNotAllowed = "method_not_allowed"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUpstream indicates a third-party service failed.
	ErrCodeUpstream = "upstream_error"
)

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	// Error is the human-readable message.
	Error string `json:"error" example:"No cover image found"`
	// Code is the machine-readable error class.
	Code string `json:"code" example:"not_found"`
	// Source is set on cover lookups that found nothing.
	Source    string    `json:"source,omitempty" example:"None"`
	RequestID string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusMethodNotAllowed:
		return ErrCodeMethodNotAllowed
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case status == http.StatusGatewayTimeout, status == http.StatusRequestTimeout:
		return ErrCodeTimeout
	case status == http.StatusBadGateway:
		return ErrCodeUpstream
	case status >= 400 && status < 500:
		return ErrCodeInvalidRequest
	default:
		return ErrCodeInternal
	}
}

// CoverResponse is returned by the cover lookup endpoint.
// @Description Resolved cover image
type CoverResponse struct {
	// CoverURL is a same-origin image proxy URL.
	CoverURL string `json:"coverUrl" example:"https://books.example.com/api/image-proxy?url=https%3A%2F%2Fcovers.openlibrary.org%2Fb%2Fisbn%2F9780140449136-M.jpg"`
	Source   string `json:"source" example:"Open Library ISBN M"`
} // @name CoverResponse

// DownloadResponse is returned by the download endpoint.
// @Description Resolved direct download link
type DownloadResponse struct {
	DirectURL string `json:"directUrl" example:"https://libgen.gs/get.php?md5=d41d8cd98f00b204e9800998ecf8427e&key=ABCD1234"`
} // @name DownloadResponse

// SearchResponse is returned by the search endpoint.
// @Description One page of search results
type SearchResponse struct {
	Books        []model.Book `json:"books"`
	TotalResults int          `json:"totalResults" example:"25"`
	CurrentPage  int          `json:"currentPage" example:"1"`
	TotalPages   int          `json:"totalPages" example:"1"`
} // @name SearchResponse

// NewSearchResponse converts a search result into its response body.
func NewSearchResponse(r model.SearchResult) SearchResponse {
	books := r.Books
	if books == nil {
		books = []model.Book{}
	}
	return SearchResponse{
		Books:        books,
		TotalResults: r.TotalResults,
		CurrentPage:  r.CurrentPage,
		TotalPages:   r.TotalPages,
	}
}

// CacheStatsResponse reports the state of every server-side cache.
// @Description Cache diagnostics
type CacheStatsResponse struct {
	Caches   []cache.Stats          `json:"caches"`
	Breakers []circuitbreaker.Stats `json:"breakers,omitempty"`
} // @name CacheStatsResponse
