// Package model provides domain models for the library service.
package model

import "strings"

// UnknownAuthor is the placeholder the catalog uses for a missing author.
const UnknownAuthor = "Unknown Author"

// UnknownTitle is the placeholder for a missing title.
const UnknownTitle = "Unknown Title"

// Book is a normalised catalog record.
type Book struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Year          string  `json:"year"`
	Pages         string  `json:"pages"`
	Language      string  `json:"language"`
	Filesize      string  `json:"filesize"`
	FilesizeBytes float64 `json:"filesize_bytes"`
	Extension     string  `json:"extension"`
	MD5           string  `json:"md5"`
	Publisher     string  `json:"publisher"`
	Series        string  `json:"series"`
	Identifier    string  `json:"identifier"`
	ISBN          string  `json:"isbn"`
	CoverURL      string  `json:"coverurl"`
	RawCoverURL   string  `json:"rawCoverUrl"`
	Tags          string  `json:"tags"`
	Topic         string  `json:"topic"`
	VolumeInfo    string  `json:"volumeinfo"`
	Periodical    string  `json:"periodical"`
	City          string  `json:"city"`
	Edition       string  `json:"edition"`
	Commentary    string  `json:"commentary"`
	DPI           string  `json:"dpi"`
	Color         string  `json:"color"`
	Cleaned       string  `json:"cleaned"`
	Orientation   string  `json:"orientation"`
	Paginated     string  `json:"paginated"`
	Scanned       string  `json:"scanned"`
	Bookmarked    string  `json:"bookmarked"`
	Searchable    string  `json:"searchable"`
}

// SearchResult is one page of normalised books.
type SearchResult struct {
	Books        []Book `json:"books"`
	TotalResults int    `json:"totalResults"`
	CurrentPage  int    `json:"currentPage"`
	TotalPages   int    `json:"totalPages"`
}

// SearchQuery is a validated catalog search.
type SearchQuery struct {
	Query     string `json:"query"`
	Count     int    `json:"count"`
	SortBy    string `json:"sort_by"`
	SearchIn  string `json:"search_in"`
	Offset    int    `json:"offset"`
	Reverse   bool   `json:"reverse"`
	Topic     string `json:"topic,omitempty"`
	YearFrom  string `json:"year_from,omitempty"`
	YearTo    string `json:"year_to,omitempty"`
	Language  string `json:"language,omitempty"`
	Extension string `json:"extension,omitempty"`
}

// CoverQuery identifies the book whose cover is wanted.
type CoverQuery struct {
	ISBN        string `json:"isbn,omitempty"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	RawCoverURL string `json:"rawCoverUrl,omitempty"`
}

// Normalize trims every field and drops the placeholder author.
func (q CoverQuery) Normalize() CoverQuery {
	q.ISBN = strings.TrimSpace(q.ISBN)
	q.Title = strings.TrimSpace(q.Title)
	q.Author = strings.TrimSpace(q.Author)
	q.RawCoverURL = strings.TrimSpace(q.RawCoverURL)
	if q.Author == UnknownAuthor {
		q.Author = ""
	}
	return q
}

// HasIdentifier reports whether the query can drive a cover lookup.
func (q CoverQuery) HasIdentifier() bool {
	return q.ISBN != "" || q.Title != "" || q.RawCoverURL != ""
}

// CoverResult is the cached outcome of a cover lookup. CoverURL is the raw
// upstream URL; it is rewritten to the proxy form only when served.
type CoverResult struct {
	CoverURL string `json:"coverUrl,omitempty"`
	Source   string `json:"source,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Found reports whether the lookup produced an image.
func (r CoverResult) Found() bool {
	return r.CoverURL != "" && r.Error == ""
}
