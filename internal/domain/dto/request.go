// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model, providing validation
// and serialization for API communication.
package dto

import (
	"regexp"
	"strings"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

// Search defaults and limits.
const (
	DefaultSearchCount = 25
	MaxSearchCount     = 100
	MinQueryLength     = 2
)

var md5Pattern = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrQueryRequired is returned when the search query is missing or blank.
	ErrQueryRequired = &ValidationError{Field: "query", Message: "is required"}
	// ErrQueryTooShort is returned for queries under MinQueryLength characters.
	ErrQueryTooShort = &ValidationError{Field: "query", Message: "must be at least 2 characters long"}
	// ErrMD5Required is returned when the md5 field is missing.
	ErrMD5Required = &ValidationError{Field: "md5", Message: "is required"}
	// ErrMD5Format is returned when md5 is not 32 hexadecimal characters.
	ErrMD5Format = &ValidationError{Field: "md5", Message: "must be 32 hexadecimal characters"}
)

// SearchRequest is the JSON body of POST /api/search.
// @Description Catalog search request
type SearchRequest struct {
	Query     string `json:"query" example:"dune"`
	Count     *int   `json:"count,omitempty" example:"25"`
	SortBy    string `json:"sort_by,omitempty" example:"def"`
	SearchIn  string `json:"search_in,omitempty" example:"def"`
	Offset    int    `json:"offset,omitempty" example:"0"`
	Reverse   bool   `json:"reverse,omitempty"`
	Topic     string `json:"topic,omitempty"`
	YearFrom  string `json:"year_from,omitempty" example:"1965"`
	YearTo    string `json:"year_to,omitempty"`
	Language  string `json:"language,omitempty" example:"English"`
	Extension string `json:"extension,omitempty" example:"epub"`
} // @name SearchRequest

// Validate checks the query and returns the normalised search.
func (r *SearchRequest) Validate() (model.SearchQuery, error) {
	q := strings.TrimSpace(r.Query)
	if q == "" {
		return model.SearchQuery{}, ErrQueryRequired
	}
	if len([]rune(q)) < MinQueryLength {
		return model.SearchQuery{}, ErrQueryTooShort
	}

	count := DefaultSearchCount
	if r.Count != nil && *r.Count > 0 {
		count = min(*r.Count, MaxSearchCount)
	}

	return model.SearchQuery{
		Query:     q,
		Count:     count,
		SortBy:    defaultString(r.SortBy, "def"),
		SearchIn:  defaultString(r.SearchIn, "def"),
		Offset:    max(r.Offset, 0),
		Reverse:   r.Reverse,
		Topic:     strings.TrimSpace(r.Topic),
		YearFrom:  strings.TrimSpace(r.YearFrom),
		YearTo:    strings.TrimSpace(r.YearTo),
		Language:  strings.TrimSpace(r.Language),
		Extension: strings.TrimSpace(r.Extension),
	}, nil
}

// DownloadRequest is the JSON body of POST /api/download.
// @Description Download link request
type DownloadRequest struct {
	MD5 string `json:"md5" example:"d41d8cd98f00b204e9800998ecf8427e"`
} // @name DownloadRequest

// Validate trims and checks the md5 format.
func (r *DownloadRequest) Validate() (string, error) {
	md5 := strings.TrimSpace(r.MD5)
	if md5 == "" {
		return "", ErrMD5Required
	}
	if !md5Pattern.MatchString(md5) {
		return "", ErrMD5Format
	}
	return md5, nil
}

// ValidMD5 reports whether s, once trimmed, is 32 hexadecimal characters.
func ValidMD5(s string) bool {
	return md5Pattern.MatchString(strings.TrimSpace(s))
}

// CoverLookupQuery binds the cover lookup query string.
type CoverLookupQuery struct {
	ISBN        string `form:"isbn"`
	Title       string `form:"title"`
	Author      string `form:"author"`
	RawCoverURL string `form:"rawCoverUrl"`
}

// ToModel converts the query into a normalised cover query.
func (q CoverLookupQuery) ToModel() model.CoverQuery {
	return model.CoverQuery{
		ISBN:        q.ISBN,
		Title:       q.Title,
		Author:      q.Author,
		RawCoverURL: q.RawCoverURL,
	}.Normalize()
}

func defaultString(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
