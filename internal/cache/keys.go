package cache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Key prefixes.
const (
	SearchPrefix   = "search_"
	CoverPrefix    = "cover_"
	MetadataPrefix = "metadata_"
)

// SearchKey derives the search cache key from the query and its options.
// options should be a struct or map so its encoding is stable.
func SearchKey(query string, options any) string {
	payload := struct {
		Query   string `json:"query"`
		Options any    `json:"options,omitempty"`
	}{Query: query, Options: options}
	return SearchPrefix + encodeKey(payload)
}

// CoverKey derives the cover cache key. Empty fields are omitted so that
// "absent" and "empty" map to the same key.
func CoverKey(isbn, title, author, rawCoverURL string) string {
	payload := struct {
		ISBN        string `json:"isbn,omitempty"`
		Title       string `json:"title,omitempty"`
		Author      string `json:"author,omitempty"`
		RawCoverURL string `json:"rawCoverUrl,omitempty"`
	}{
		ISBN:        isbn,
		Title:       title,
		Author:      author,
		RawCoverURL: rawCoverURL,
	}
	return CoverPrefix + encodeKey(payload)
}

// MetadataKey derives the metadata cache key for a content hash.
func MetadataKey(md5 string) string {
	return MetadataPrefix + strings.ToLower(strings.TrimSpace(md5))
}

func encodeKey(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// only reachable with unencodable option values
		return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%#v", v)))
	}
	return base64.StdEncoding.EncodeToString(b)
}
