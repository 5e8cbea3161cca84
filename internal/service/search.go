package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/catalog"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

// Search cache TTLs.
const (
	SearchTTL      = 10 * time.Minute
	EmptySearchTTL = 5 * time.Second
)

var (
	isbnPattern  = regexp.MustCompile(`(?i)(?:ISBN[:\s]?)?(?:97[89][\d\s-]{10,17}|[\d\s-]{9,13}[X\d])`)
	nonISBNMatch = regexp.MustCompile(`(?i)[^\dX]`)
	leadingFloat = regexp.MustCompile(`^\s*[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// Catalog is the remote book catalog.
type Catalog interface {
	Search(ctx context.Context, p catalog.SearchParams) ([]catalog.Record, error)
	FindByMD5(ctx context.Context, md5 string) (*catalog.Record, error)
	Mirror() string
}

// BookSearcher runs catalog searches.
type BookSearcher interface {
	Search(ctx context.Context, q model.SearchQuery) (model.SearchResult, error)
}

// SearchService searches the catalog and caches result pages.
type SearchService struct {
	catalog Catalog
	cache   *cache.Cache[model.SearchResult]
}

// NewSearchService returns a search service caching into c.
func NewSearchService(cat Catalog, c *cache.Cache[model.SearchResult]) *SearchService {
	return &SearchService{catalog: cat, cache: c}
}

// searchOptions is the cache identity of a search, mirror included.
type searchOptions struct {
	Mirror   string `json:"mirror"`
	Query    string `json:"query"`
	Count    int    `json:"count"`
	Offset   int    `json:"offset"`
	SortBy   string `json:"sort_by"`
	SearchIn string `json:"search_in"`
	Reverse  bool   `json:"reverse"`
}

// Search implements BookSearcher.
func (s *SearchService) Search(ctx context.Context, q model.SearchQuery) (model.SearchResult, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return model.SearchResult{}, ErrQueryRequired
	}
	if len([]rune(q.Query)) < 2 {
		return model.SearchResult{}, ErrQueryTooShort
	}
	if q.Count <= 0 {
		q.Count = 25
	}

	query, searchIn := BuildSearchQuery(q)
	opts := searchOptions{
		Mirror:   s.catalog.Mirror(),
		Query:    query,
		Count:    q.Count,
		Offset:   max(q.Offset, 0),
		SortBy:   q.SortBy,
		SearchIn: searchIn,
		Reverse:  q.Reverse,
	}
	key := cache.SearchKey(query, opts)

	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	ctx, span := tracer.Start(ctx, "catalog.search")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.query", query), attribute.Int("catalog.count", q.Count))

	start := time.Now()
	records, err := s.catalog.Search(ctx, catalog.SearchParams{
		Query:    opts.Query,
		Count:    opts.Count,
		Offset:   opts.Offset,
		SortBy:   opts.SortBy,
		SearchIn: opts.SearchIn,
		Reverse:  opts.Reverse,
	})
	if err != nil {
		metrics.RecordCatalogSearch(time.Since(start), "error")
		span.RecordError(err)
		log.Warn().Err(err).Str("query", query).Msg("Catalog search failed")
		return model.SearchResult{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	books := make([]model.Book, 0, len(records))
	for _, r := range records {
		books = append(books, NormalizeBook(r))
	}
	res := Paginate(books, opts.Offset, opts.Count)

	ttl := SearchTTL
	outcome := "ok"
	if len(books) == 0 {
		ttl = EmptySearchTTL
		outcome = "empty"
	}
	s.cache.SetWithTTL(key, res, ttl)
	metrics.RecordCatalogSearch(time.Since(start), outcome)
	span.SetAttributes(attribute.Int("catalog.results", len(books)))
	return res, nil
}

// BuildSearchQuery folds the filters into the query string the mirror
// understands and returns it with the column to search.
func BuildSearchQuery(q model.SearchQuery) (query, searchIn string) {
	query = strings.TrimSpace(q.Query)
	searchIn = q.SearchIn
	if searchIn == "" {
		searchIn = "def"
	}

	if q.Topic != "" {
		if strings.HasPrefix(q.Topic, "topicid") {
			query = q.Topic
			searchIn = "topic"
		} else {
			query += " " + q.Topic
		}
	}

	switch {
	case q.YearFrom != "" && q.YearTo != "":
		query += " year:" + q.YearFrom + "-" + q.YearTo
	case q.YearFrom != "":
		query += " year:" + q.YearFrom + "-"
	case q.YearTo != "":
		query += " year:-" + q.YearTo
	}
	if q.Language != "" {
		query += " language:" + q.Language
	}
	if q.Extension != "" {
		query += " extension:" + q.Extension
	}
	return query, searchIn
}

// Paginate wraps one page of books. The mirror does not report a total, so
// the page itself is the total.
func Paginate(books []model.Book, offset, count int) model.SearchResult {
	if count <= 0 {
		count = 25
	}
	return model.SearchResult{
		Books:        books,
		TotalResults: len(books),
		CurrentPage:  offset/count + 1,
		TotalPages:   int(math.Ceil(float64(len(books)) / float64(count))),
	}
}

// NormalizeBook converts a catalog record into the public book shape.
func NormalizeBook(r catalog.Record) model.Book {
	identifier := r.Identifier.String()
	isbn := ExtractISBN(identifier)
	title := r.Title.String()
	author := r.Author.String()
	rawCover := r.CoverURL.String()

	return model.Book{
		ID:            r.ID.String(),
		Title:         orElse(title, model.UnknownTitle),
		Author:        orElse(author, model.UnknownAuthor),
		Year:          r.Year.String(),
		Pages:         r.Pages.String(),
		Language:      r.Language.String(),
		Filesize:      r.Filesize.String(),
		FilesizeBytes: FilesizeBytes(r.Filesize.String()),
		Extension:     r.Extension.String(),
		MD5:           r.MD5.String(),
		Publisher:     r.Publisher.String(),
		Series:        r.Series.String(),
		Identifier:    identifier,
		ISBN:          isbn,
		CoverURL:      CoverLookupPath(isbn, title, author, rawCover),
		RawCoverURL:   rawCover,
		Tags:          r.Tags.String(),
		Topic:         r.Topic.String(),
		VolumeInfo:    r.VolumeInfo.String(),
		Periodical:    r.Periodical.String(),
		City:          r.City.String(),
		Edition:       r.Edition.String(),
		Commentary:    r.Commentary.String(),
		DPI:           r.DPI.String(),
		Color:         r.Color.String(),
		Cleaned:       r.Cleaned.String(),
		Orientation:   r.Orientation.String(),
		Paginated:     r.Paginated.String(),
		Scanned:       r.Scanned.String(),
		Bookmarked:    r.Bookmarked.String(),
		Searchable:    r.Searchable.String(),
	}
}

// ExtractISBN returns the first ISBN-like token of identifier, digits and X only.
func ExtractISBN(identifier string) string {
	m := isbnPattern.FindString(identifier)
	if m == "" {
		return ""
	}
	return nonISBNMatch.ReplaceAllString(m, "")
}

// FilesizeBytes converts "1.5 MB", "700 kb" or a plain byte count to bytes.
func FilesizeBytes(size string) float64 {
	s := strings.ToLower(size)
	n, err := strconv.ParseFloat(strings.TrimSpace(leadingFloat.FindString(s)), 64)
	if err != nil {
		return 0
	}
	switch {
	case strings.Contains(s, "kb"):
		return n * 1024
	case strings.Contains(s, "mb"):
		return n * 1024 * 1024
	case strings.Contains(s, "gb"):
		return n * 1024 * 1024 * 1024
	default:
		return n
	}
}

// CoverLookupPath is the relative cover endpoint URL for a book; empty
// parameters are left out.
func CoverLookupPath(isbn, title, author, rawCoverURL string) string {
	var params []string
	add := func(k, v string) {
		if v != "" {
			params = append(params, k+"="+url.QueryEscape(v))
		}
	}
	add("isbn", isbn)
	add("title", title)
	add("author", author)
	add("rawCoverUrl", rawCoverURL)
	return "/api/book-cover?" + strings.Join(params, "&")
}

func orElse(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
