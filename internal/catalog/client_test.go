package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

func resultsPage(ids ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="c"><tr><td><b>ID</b></td><td>Author(s)</td></tr>`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>Someone</td></tr>`, id)
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

type fakeMirror struct {
	mu       sync.Mutex
	pages    map[string][]string
	records  map[string]map[string]any
	searches []string
	status   int
}

func (m *fakeMirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != 0 {
		w.WriteHeader(m.status)
		return
	}

	switch r.URL.Path {
	case "/search.php":
		m.searches = append(m.searches, r.URL.RawQuery)
		_, _ = w.Write([]byte(resultsPage(m.pages[r.URL.Query().Get("page")]...)))
	case "/json.php":
		var out []map[string]any
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if rec, ok := m.records[id]; ok {
				out = append(out, rec)
			}
		}
		// reverse to prove the client restores search order
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		_ = json.NewEncoder(w).Encode(out)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, m *fakeMirror) *Client {
	t.Helper()
	srv := httptest.NewServer(m)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", upstream.NewClient(), 5*time.Second)
}

func TestClient_Search(t *testing.T) {
	t.Run("returns records in search order", func(t *testing.T) {
		m := &fakeMirror{
			pages: map[string][]string{"1": {"11", "22"}},
			records: map[string]map[string]any{
				"11": {"id": "11", "title": "Dune", "md5": "AAA", "filesize": 123456},
				"22": {"id": "22", "title": "Dune Messiah", "md5": "BBB", "year": nil},
			},
		}
		c := newTestClient(t, m)

		records, err := c.Search(context.Background(), SearchParams{Query: "dune", Count: 25, Reverse: true})

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Dune", records[0].Title.String())
		assert.Equal(t, "123456", records[0].Filesize.String())
		assert.Equal(t, "", records[1].Year.String())

		require.Len(t, m.searches, 1)
		assert.Contains(t, m.searches[0], "req=dune")
		assert.Contains(t, m.searches[0], "sortmode=DESC")
		assert.Contains(t, m.searches[0], "column=def")
		assert.Contains(t, m.searches[0], "res=25")
	})

	t.Run("no ids means empty result without json call", func(t *testing.T) {
		m := &fakeMirror{pages: map[string][]string{}}
		c := newTestClient(t, m)

		records, err := c.Search(context.Background(), SearchParams{Query: "zzzzqqq", Count: 25})

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("offset selects page and skips within it", func(t *testing.T) {
		page2 := make([]string, 25)
		records := map[string]map[string]any{}
		for i := range page2 {
			id := fmt.Sprintf("%d", 100+i)
			page2[i] = id
			records[id] = map[string]any{"id": id}
		}
		m := &fakeMirror{pages: map[string][]string{"2": page2}, records: records}
		c := newTestClient(t, m)

		got, err := c.Search(context.Background(), SearchParams{Query: "go", Count: 25, Offset: 30})

		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "105", got[0].ID.String())
		assert.Contains(t, m.searches[0], "page=2")
	})

	t.Run("mirror failure is an error", func(t *testing.T) {
		m := &fakeMirror{status: http.StatusForbidden}
		c := newTestClient(t, m)

		_, err := c.Search(context.Background(), SearchParams{Query: "dune", Count: 25})

		var se *upstream.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusForbidden, se.StatusCode)
	})
}

func TestClient_FindByMD5(t *testing.T) {
	m := &fakeMirror{
		pages:   map[string][]string{"1": {"7"}},
		records: map[string]map[string]any{"7": {"id": "7", "md5": "D41D8CD98F00B204E9800998ECF8427E"}},
	}
	c := newTestClient(t, m)

	t.Run("matches case insensitively", func(t *testing.T) {
		rec, err := c.FindByMD5(context.Background(), "d41d8cd98f00b204e9800998ecf8427e")

		require.NoError(t, err)
		assert.Equal(t, "7", rec.ID.String())
		assert.Contains(t, m.searches[len(m.searches)-1], "column=md5")
	})

	t.Run("unknown hash", func(t *testing.T) {
		_, err := c.FindByMD5(context.Background(), "00000000000000000000000000000000")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		count, want int
	}{
		{1, 25}, {25, 25}, {26, 50}, {50, 50}, {75, 100}, {100, 100}, {500, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageSize(tt.count), "count %d", tt.count)
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"id":42,"title":"T","year":null,"pages":"300","cleaned":true}`), &rec)

	require.NoError(t, err)
	assert.Equal(t, "42", rec.ID.String())
	assert.Equal(t, "T", rec.Title.String())
	assert.Equal(t, "", rec.Year.String())
	assert.Equal(t, "300", rec.Pages.String())
	assert.Equal(t, "true", rec.Cleaned.String())

	assert.Error(t, json.Unmarshal([]byte(`{"id":{}}`), &rec))
}
