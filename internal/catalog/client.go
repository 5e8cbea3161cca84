// Package catalog talks to a LibGen mirror: it scrapes search.php for the
// matching record ids and loads the records themselves from json.php.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

// ErrNotFound is returned by FindByMD5 when the mirror has no such record.
var ErrNotFound = errors.New("catalog record not found")

// pageSizes are the only result counts search.php accepts.
var pageSizes = []int{25, 50, 100}

// SearchParams is a search against the mirror.
type SearchParams struct {
	Query    string
	Count    int
	Offset   int
	SortBy   string
	SearchIn string
	Reverse  bool
}

// Client searches one mirror.
type Client struct {
	mirror  string
	http    *upstream.Client
	timeout time.Duration
	policy  upstream.Policy
}

// NewClient returns a catalog client for mirror (e.g. http://libgen.is).
// timeout bounds a whole search, ids and records together.
func NewClient(mirror string, hc *upstream.Client, timeout time.Duration) *Client {
	return &Client{
		mirror:  strings.TrimSuffix(mirror, "/"),
		http:    hc,
		timeout: timeout,
		policy:  upstream.Policy{Retries: 1, Interval: time.Second},
	}
}

// Mirror returns the base URL searched by this client.
func (c *Client) Mirror() string {
	return c.mirror
}

// Search returns up to p.Count records starting at p.Offset, in mirror order.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Record, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ids, err := c.searchIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Record{}, nil
	}
	return c.recordsByID(ctx, ids)
}

// FindByMD5 looks a single record up by its content hash.
func (c *Client) FindByMD5(ctx context.Context, md5 string) (*Record, error) {
	records, err := c.Search(ctx, SearchParams{Query: md5, Count: 25, SearchIn: "md5"})
	if err != nil {
		return nil, err
	}
	for i := range records {
		if strings.EqualFold(records[i].MD5.String(), md5) {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}

func (c *Client) searchIDs(ctx context.Context, p SearchParams) ([]string, error) {
	count := p.Count
	if count <= 0 {
		count = pageSizes[0]
	}
	res := pageSize(count)
	page := p.Offset/res + 1
	skip := p.Offset % res

	ids := make([]string, 0, count)
	for len(ids) < count {
		pageIDs, err := c.searchPage(ctx, p, res, page)
		if err != nil {
			return nil, err
		}
		full := len(pageIDs) >= res
		if skip > 0 {
			pageIDs = pageIDs[min(skip, len(pageIDs)):]
			skip = 0
		}
		ids = append(ids, pageIDs...)
		if !full {
			break
		}
		page++
	}
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

func (c *Client) searchPage(ctx context.Context, p SearchParams, res, page int) ([]string, error) {
	sortMode := "ASC"
	if p.Reverse {
		sortMode = "DESC"
	}
	q := url.Values{}
	q.Set("req", p.Query)
	q.Set("lg_topic", "libgen")
	q.Set("open", "0")
	q.Set("view", "simple")
	q.Set("res", strconv.Itoa(res))
	q.Set("phrase", "1")
	q.Set("column", orDefault(p.SearchIn, "def"))
	q.Set("sort", orDefault(p.SortBy, "def"))
	q.Set("sortmode", sortMode)
	q.Set("page", strconv.Itoa(page))
	target := c.mirror + "/search.php?" + q.Encode()

	resp, err := c.http.Do(ctx, http.MethodGet, target, http.Header{"Accept": []string{"text/html"}}, c.policy)
	if err != nil {
		return nil, fmt.Errorf("search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &upstream.StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	ids := parseResultIDs(doc)
	log.Debug().Str("query", p.Query).Int("page", page).Int("ids", len(ids)).Msg("Catalog search page parsed")
	return ids, nil
}

// parseResultIDs reads the first column of the results table. Header and
// pager rows are skipped because their first cell is not numeric.
func parseResultIDs(doc *goquery.Document) []string {
	var ids []string
	seen := make(map[string]bool)
	doc.Find("table.c tr").Each(func(_ int, row *goquery.Selection) {
		id := strings.TrimSpace(row.Find("td").First().Text())
		if id == "" || !isDigits(id) || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids
}

func (c *Client) recordsByID(ctx context.Context, ids []string) ([]Record, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("fields", "*")
	target := c.mirror + "/json.php?" + q.Encode()

	var records []Record
	if err := c.http.GetJSON(ctx, target, &records, c.policy); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	byID := make(map[string]Record, len(records))
	for _, r := range records {
		byID[r.ID.String()] = r
	}
	ordered := make([]Record, 0, len(records))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

func pageSize(count int) int {
	for _, s := range pageSizes {
		if count <= s {
			return s
		}
	}
	return pageSizes[len(pageSizes)-1]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
