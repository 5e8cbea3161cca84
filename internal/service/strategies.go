package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

// Strategy names, also used as the reported cover source where the source
// does not carry a size suffix.
const (
	SourceLibGenDirect      = "LibGen Direct"
	SourceLibGenISBN        = "LibGen ISBN Pattern"
	SourceLibGenHash        = "LibGen Hash Pattern"
	SourceLibGenTitle       = "LibGen Title Pattern"
	SourceOpenLibraryISBN   = "Open Library ISBN"
	SourceGoogleBooks       = "Google Books"
	SourceLongitood         = "Longitood/Goodreads"
	SourceOpenLibrarySearch = "Open Library Search"
)

// hashBuckets are LibGen cover directories that often hold scans filed under
// an ISBN or title. Probing them is a blind heuristic; misses are cheap HEADs.
var hashBuckets = []string{
	"880000", "881000", "882000", "883000", "884000", "885000",
	"2944000", "2945000", "2946000", "2947000", "2948000",
	"1000000", "1001000", "1002000", "1003000", "1004000",
	"3000000", "3001000", "3002000", "3003000", "3004000",
}

var (
	nonISBNChars  = regexp.MustCompile(`[^0-9X]`)
	nonTitleChars = regexp.MustCompile(`[^\w\s]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// CoverSources holds the base URLs of every cover host.
type CoverSources struct {
	LibGenCovers      string
	OpenLibraryCovers string
	OpenLibrarySearch string
	GoogleBooks       string
	Longitood         string
}

// DefaultCoverSources returns the public endpoints, with LibGen covers
// served from coverBase.
func DefaultCoverSources(coverBase string) CoverSources {
	return CoverSources{
		LibGenCovers:      coverBase,
		OpenLibraryCovers: "https://covers.openlibrary.org",
		OpenLibrarySearch: "https://openlibrary.org",
		GoogleBooks:       "https://www.googleapis.com/books/v1",
		Longitood:         "https://bookcover.longitood.com",
	}
}

// StrategyConfig bounds the network calls made by the strategies.
type StrategyConfig struct {
	// ProbeTimeout bounds each HEAD validation; probes are never retried.
	ProbeTimeout time.Duration
	// API applies to the metadata lookups (Longitood, Open Library search).
	API upstream.Policy
	// GoogleBooks applies to the Google Books volume search.
	GoogleBooks upstream.Policy
}

// DefaultStrategyConfig returns 5s probes, 8s/1 retry lookups and a 4s
// single-shot Google Books query.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		ProbeTimeout: 5 * time.Second,
		API:          upstream.Policy{Timeout: 8 * time.Second, Retries: 1, Interval: time.Second},
		GoogleBooks:  upstream.Policy{Timeout: 4 * time.Second},
	}
}

type coverStrategies struct {
	client *upstream.Client
	src    CoverSources
	cfg    StrategyConfig
}

// NewCoverStrategies returns the cover strategies in priority order: the
// LibGen patterns first, then the public cover APIs.
func NewCoverStrategies(client *upstream.Client, src CoverSources, cfg StrategyConfig) []Strategy {
	s := &coverStrategies{
		client: client,
		src:    trimSources(src),
		cfg:    cfg,
	}
	return []Strategy{
		{Name: SourceLibGenDirect, Resolve: s.libgenDirect},
		{Name: SourceLibGenISBN, Resolve: s.libgenISBN},
		{Name: SourceLibGenHash, Resolve: s.libgenHash},
		{Name: SourceLibGenTitle, Resolve: s.libgenTitle},
		{Name: SourceOpenLibraryISBN, Resolve: s.openLibraryISBN},
		{Name: SourceGoogleBooks, Resolve: s.googleBooks},
		{Name: SourceLongitood, Resolve: s.longitood},
		{Name: SourceOpenLibrarySearch, Resolve: s.openLibrarySearch},
	}
}

func (s *coverStrategies) libgenDirect(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	if q.RawCoverURL == "" {
		return nil, nil
	}
	raw := strings.TrimPrefix(q.RawCoverURL, "/")
	base := raw
	if i := strings.LastIndex(raw, "."); i != -1 {
		base = raw[:i]
	}
	return s.firstValid(ctx, SourceLibGenDirect,
		s.libgen(base+"-g.jpg"),
		s.libgen(base+"-d.jpg"),
		s.libgen(raw),
	), nil
}

func (s *coverStrategies) libgenISBN(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	isbn := cleanISBN(q.ISBN)
	if len(isbn) < 10 {
		return nil, nil
	}
	urls := []string{s.libgen(isbn + "-g.jpg"), s.libgen(isbn + "-d.jpg")}
	if len(isbn) == 10 {
		urls = append(urls, s.libgen("978"+isbn+"-g.jpg"), s.libgen("978"+isbn+"-d.jpg"))
	}
	head, tail := isbn[:3]+"000", isbn[len(isbn)-3:]+"000"
	urls = append(urls,
		s.libgen(head+"/"+isbn+"-g.jpg"),
		s.libgen(head+"/"+isbn+"-d.jpg"),
		s.libgen(tail+"/"+isbn+"-g.jpg"),
		s.libgen(tail+"/"+isbn+"-d.jpg"),
	)
	return s.firstValid(ctx, SourceLibGenISBN, urls...), nil
}

func (s *coverStrategies) libgenHash(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	var name string
	switch {
	case q.ISBN != "":
		name = cleanISBN(q.ISBN)
	case q.Title != "":
		name = strings.ToLower(cleanTitle(q.Title))
	}
	if name == "" {
		return nil, nil
	}
	name = url.PathEscape(name)

	for _, bucket := range hashBuckets {
		cand := s.firstValid(ctx, SourceLibGenHash,
			s.libgen(bucket+"/"+name+"-g.jpg"),
			s.libgen(bucket+"/"+name+"-d.jpg"),
			s.libgen(bucket+"/"+name+"abcd-g.jpg"),
			s.libgen(bucket+"/"+name+"abcd-d.jpg"),
		)
		if cand != nil {
			return cand, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (s *coverStrategies) libgenTitle(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	if q.Title == "" {
		return nil, nil
	}
	name := whitespace.ReplaceAllString(strings.ToLower(cleanTitle(mainTitle(q.Title))), "")
	if name == "" {
		return nil, nil
	}
	short := name[:min(len(name), 20)]
	return s.firstValid(ctx, SourceLibGenTitle, dedupe(
		s.libgen(name+"-g.jpg"),
		s.libgen(name+"-d.jpg"),
		s.libgen(short+"-g.jpg"),
		s.libgen(short+"-d.jpg"),
	)...), nil
}

func (s *coverStrategies) openLibraryISBN(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	isbn := cleanISBN(q.ISBN)
	if len(isbn) < 10 {
		return nil, nil
	}
	for _, size := range []string{"M", "L"} {
		u := fmt.Sprintf("%s/b/isbn/%s-%s.jpg", s.src.OpenLibraryCovers, isbn, size)
		if s.client.ProbeImage(ctx, u, s.cfg.ProbeTimeout) {
			return &Candidate{URL: u, Source: SourceOpenLibraryISBN + " " + size}, nil
		}
	}
	return nil, nil
}

type googleVolumes struct {
	Items []struct {
		VolumeInfo struct {
			ImageLinks *struct {
				SmallThumbnail string `json:"smallThumbnail"`
				Thumbnail      string `json:"thumbnail"`
				Small          string `json:"small"`
				Medium         string `json:"medium"`
				Large          string `json:"large"`
				ExtraLarge     string `json:"extraLarge"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (s *coverStrategies) googleBooks(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	var query string
	if isbn := cleanISBN(q.ISBN); len(isbn) >= 10 {
		query = "isbn:" + isbn
	} else if q.Title != "" {
		query = "intitle:" + encodeComponent(mainTitle(q.Title))
		if q.Author != "" {
			query += "+inauthor:" + encodeComponent(q.Author)
		}
	} else {
		return nil, nil
	}

	var vols googleVolumes
	if err := s.client.GetJSON(ctx, s.src.GoogleBooks+"/volumes?q="+query, &vols, s.cfg.GoogleBooks); err != nil {
		return nil, fmt.Errorf("google books: %w", err)
	}
	if len(vols.Items) == 0 || vols.Items[0].VolumeInfo.ImageLinks == nil {
		return nil, nil
	}

	links := vols.Items[0].VolumeInfo.ImageLinks
	var urls []string
	for _, u := range []string{links.SmallThumbnail, links.Thumbnail, links.Small, links.Medium, links.Large, links.ExtraLarge} {
		if u != "" {
			urls = append(urls, strings.Replace(u, "http://", "https://", 1))
		}
	}
	return s.firstValid(ctx, SourceGoogleBooks, urls...), nil
}

func (s *coverStrategies) longitood(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	var lookup string
	if isbn := cleanISBN(q.ISBN); len(isbn) >= 10 {
		lookup = s.src.Longitood + "/bookcover/" + isbn
	} else if q.Title != "" && q.Author != "" {
		lookup = s.src.Longitood + "/bookcover?book_title=" + encodeComponent(mainTitle(q.Title)) +
			"&author_name=" + encodeComponent(q.Author)
	} else {
		return nil, nil
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := s.client.GetJSON(ctx, lookup, &body, s.cfg.API); err != nil {
		return nil, fmt.Errorf("longitood: %w", err)
	}
	if body.URL == "" {
		return nil, nil
	}
	return s.firstValid(ctx, SourceLongitood, body.URL), nil
}

func (s *coverStrategies) openLibrarySearch(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	if q.Title == "" {
		return nil, nil
	}
	search := cleanTitle(mainTitle(q.Title))
	if q.Author != "" {
		search += " " + q.Author
	}

	var body struct {
		Docs []struct {
			CoverID int64 `json:"cover_i"`
		} `json:"docs"`
	}
	lookup := s.src.OpenLibrarySearch + "/search.json?q=" + encodeComponent(search) + "&limit=5"
	if err := s.client.GetJSON(ctx, lookup, &body, s.cfg.API); err != nil {
		return nil, fmt.Errorf("open library search: %w", err)
	}

	for _, doc := range body.Docs {
		if doc.CoverID == 0 {
			continue
		}
		for _, size := range []string{"L", "M"} {
			u := s.src.OpenLibraryCovers + "/b/id/" + strconv.FormatInt(doc.CoverID, 10) + "-" + size + ".jpg"
			if s.client.ProbeImage(ctx, u, s.cfg.ProbeTimeout) {
				return &Candidate{URL: u, Source: SourceOpenLibrarySearch + " " + size}, nil
			}
		}
	}
	return nil, nil
}

// firstValid probes urls in order and returns the first real image.
func (s *coverStrategies) firstValid(ctx context.Context, source string, urls ...string) *Candidate {
	for _, u := range urls {
		if ctx.Err() != nil {
			return nil
		}
		if s.client.ProbeImage(ctx, u, s.cfg.ProbeTimeout) {
			return &Candidate{URL: u, Source: source}
		}
	}
	return nil
}

func (s *coverStrategies) libgen(path string) string {
	return s.src.LibGenCovers + "/" + path
}

func trimSources(src CoverSources) CoverSources {
	src.LibGenCovers = strings.TrimSuffix(src.LibGenCovers, "/")
	src.OpenLibraryCovers = strings.TrimSuffix(src.OpenLibraryCovers, "/")
	src.OpenLibrarySearch = strings.TrimSuffix(src.OpenLibrarySearch, "/")
	src.GoogleBooks = strings.TrimSuffix(src.GoogleBooks, "/")
	src.Longitood = strings.TrimSuffix(src.Longitood, "/")
	return src
}

// cleanISBN keeps digits and an upper-case check character X.
func cleanISBN(isbn string) string {
	return nonISBNChars.ReplaceAllString(isbn, "")
}

// cleanTitle drops punctuation, keeping ASCII word characters and spaces.
func cleanTitle(title string) string {
	return strings.TrimSpace(nonTitleChars.ReplaceAllString(title, ""))
}

// mainTitle strips a subtitle introduced by ':' or '('.
func mainTitle(title string) string {
	title, _, _ = strings.Cut(title, ":")
	title, _, _ = strings.Cut(title, "(")
	return strings.TrimSpace(title)
}

// encodeComponent escapes s for use inside a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func dedupe(urls ...string) []string {
	out := urls[:0]
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
