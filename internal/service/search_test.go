package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/catalog"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

type fakeCatalog struct {
	records  []catalog.Record
	err      error
	searches []catalog.SearchParams
	byMD5    map[string]catalog.Record
	lookups  int
}

func (f *fakeCatalog) Search(_ context.Context, p catalog.SearchParams) ([]catalog.Record, error) {
	f.searches = append(f.searches, p)
	return f.records, f.err
}

func (f *fakeCatalog) FindByMD5(_ context.Context, md5 string) (*catalog.Record, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.byMD5[md5]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &r, nil
}

func (f *fakeCatalog) Mirror() string { return "http://libgen.test" }

func duneRecord() catalog.Record {
	return catalog.Record{
		ID:         "42",
		Title:      "Dune",
		Author:     "Frank Herbert",
		Year:       "1965",
		Filesize:   "1.5 MB",
		Extension:  "epub",
		MD5:        testMD5,
		Identifier: "9780441172719,0441172717",
		CoverURL:   "2944000/abc.jpg",
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name         string
		q            model.SearchQuery
		wantQuery    string
		wantSearchIn string
	}{
		{
			name:         "plain",
			q:            model.SearchQuery{Query: " dune "},
			wantQuery:    "dune",
			wantSearchIn: "def",
		},
		{
			name:         "topic name is appended",
			q:            model.SearchQuery{Query: "dune", Topic: "fiction", SearchIn: "title"},
			wantQuery:    "dune fiction",
			wantSearchIn: "title",
		},
		{
			name:         "topic id replaces the query",
			q:            model.SearchQuery{Query: "dune", Topic: "topicid210"},
			wantQuery:    "topicid210",
			wantSearchIn: "topic",
		},
		{
			name:         "year range",
			q:            model.SearchQuery{Query: "dune", YearFrom: "1960", YearTo: "1970"},
			wantQuery:    "dune year:1960-1970",
			wantSearchIn: "def",
		},
		{
			name:         "year from only",
			q:            model.SearchQuery{Query: "dune", YearFrom: "1960"},
			wantQuery:    "dune year:1960-",
			wantSearchIn: "def",
		},
		{
			name:         "year to only with language and extension",
			q:            model.SearchQuery{Query: "dune", YearTo: "1970", Language: "English", Extension: "epub"},
			wantQuery:    "dune year:-1970 language:English extension:epub",
			wantSearchIn: "def",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, searchIn := BuildSearchQuery(tt.q)

			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantSearchIn, searchIn)
		})
	}
}

func TestExtractISBN(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"9780441172719,0441172717", "9780441172719"},
		{"978-0-441-17271-9", "9780441172719"},
		{"0-8044-2957-X", "080442957X"},
		{"isbn 9780141439518", "9780141439518"},
		{"", ""},
		{"no numbers here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractISBN(tt.identifier))
		})
	}
}

func TestFilesizeBytes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5 MB", 1.5 * 1024 * 1024},
		{"700 kb", 700 * 1024},
		{"2 GB", 2 * 1024 * 1024 * 1024},
		{"123456", 123456},
		{"", 0},
		{"unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, FilesizeBytes(tt.in), 0.001)
		})
	}
}

func TestCoverLookupPath(t *testing.T) {
	assert.Equal(t,
		"/api/book-cover?isbn=9780441172719&title=Dune+Messiah&author=Frank+Herbert&rawCoverUrl=2944000%2Fabc.jpg",
		CoverLookupPath("9780441172719", "Dune Messiah", "Frank Herbert", "2944000/abc.jpg"))
	assert.Equal(t, "/api/book-cover?title=Dune", CoverLookupPath("", "Dune", "", ""))
}

func TestPaginate(t *testing.T) {
	books := make([]model.Book, 30)

	res := Paginate(books, 50, 25)

	assert.Equal(t, 30, res.TotalResults)
	assert.Equal(t, 3, res.CurrentPage)
	assert.Equal(t, 2, res.TotalPages)

	empty := Paginate(nil, 0, 25)
	assert.Equal(t, 1, empty.CurrentPage)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestNormalizeBook(t *testing.T) {
	book := NormalizeBook(duneRecord())

	assert.Equal(t, "42", book.ID)
	assert.Equal(t, "9780441172719", book.ISBN)
	assert.InDelta(t, 1.5*1024*1024, book.FilesizeBytes, 0.001)
	assert.Equal(t, "2944000/abc.jpg", book.RawCoverURL)
	assert.Equal(t, "/api/book-cover?isbn=9780441172719&title=Dune&author=Frank+Herbert&rawCoverUrl=2944000%2Fabc.jpg", book.CoverURL)

	blank := NormalizeBook(catalog.Record{ID: "1"})
	assert.Equal(t, model.UnknownTitle, blank.Title)
	assert.Equal(t, model.UnknownAuthor, blank.Author)
	assert.Equal(t, "/api/book-cover?", blank.CoverURL)
}

func newSearchService(clock *fakeClock, cat *fakeCatalog) *SearchService {
	c := cache.New[model.SearchResult](cache.Config{Name: "search", MaxEntries: 100, DefaultTTL: SearchTTL}, cache.WithClock(clock.Now))
	return NewSearchService(cat, c)
}

func TestSearchService_Search(t *testing.T) {
	t.Run("validates the query", func(t *testing.T) {
		svc := newSearchService(newFakeClock(), &fakeCatalog{})

		_, err := svc.Search(context.Background(), model.SearchQuery{Query: "  "})
		assert.ErrorIs(t, err, ErrQueryRequired)

		_, err = svc.Search(context.Background(), model.SearchQuery{Query: "a"})
		assert.ErrorIs(t, err, ErrQueryTooShort)
	})

	t.Run("normalises and caches results", func(t *testing.T) {
		clock := newFakeClock()
		cat := &fakeCatalog{records: []catalog.Record{duneRecord()}}
		svc := newSearchService(clock, cat)
		q := model.SearchQuery{Query: "dune", Count: 25, SortBy: "year", SearchIn: "title", Reverse: true, Language: "English"}

		res, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		require.Len(t, res.Books, 1)
		assert.Equal(t, "Dune", res.Books[0].Title)
		assert.Equal(t, 1, res.TotalResults)
		assert.Equal(t, 1, res.CurrentPage)
		assert.Equal(t, 1, res.TotalPages)

		require.Len(t, cat.searches, 1)
		assert.Equal(t, catalog.SearchParams{
			Query: "dune language:English", Count: 25, SortBy: "year", SearchIn: "title", Reverse: true,
		}, cat.searches[0])

		clock.Advance(9 * time.Minute)
		_, err = svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Len(t, cat.searches, 1)

		clock.Advance(2 * time.Minute)
		_, err = svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Len(t, cat.searches, 2)
	})

	t.Run("empty results are cached briefly", func(t *testing.T) {
		clock := newFakeClock()
		cat := &fakeCatalog{}
		svc := newSearchService(clock, cat)
		q := model.SearchQuery{Query: "zzzz", Count: 25}

		res, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, res.Books)
		assert.Equal(t, 0, res.TotalPages)

		_, _ = svc.Search(context.Background(), q)
		assert.Len(t, cat.searches, 1)

		clock.Advance(6 * time.Second)
		_, _ = svc.Search(context.Background(), q)
		assert.Len(t, cat.searches, 2)
	})

	t.Run("catalog failure", func(t *testing.T) {
		svc := newSearchService(newFakeClock(), &fakeCatalog{err: errors.New("connection reset")})

		_, err := svc.Search(context.Background(), model.SearchQuery{Query: "dune", Count: 25})

		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}
