package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr error
		check   func(*testing.T, SearchRequest)
	}{
		{
			name:    "missing query",
			req:     SearchRequest{},
			wantErr: ErrQueryRequired,
		},
		{
			name:    "blank query",
			req:     SearchRequest{Query: "   "},
			wantErr: ErrQueryRequired,
		},
		{
			name:    "single character",
			req:     SearchRequest{Query: " a "},
			wantErr: ErrQueryTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Validate()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("applies defaults", func(t *testing.T) {
		req := SearchRequest{Query: "  dune "}

		q, err := req.Validate()

		require.NoError(t, err)
		assert.Equal(t, "dune", q.Query)
		assert.Equal(t, DefaultSearchCount, q.Count)
		assert.Equal(t, "def", q.SortBy)
		assert.Equal(t, "def", q.SearchIn)
		assert.Equal(t, 0, q.Offset)
	})

	t.Run("caps count", func(t *testing.T) {
		req := SearchRequest{Query: "dune", Count: intPtr(500)}

		q, err := req.Validate()

		require.NoError(t, err)
		assert.Equal(t, MaxSearchCount, q.Count)
	})

	t.Run("keeps filters and clamps offset", func(t *testing.T) {
		req := SearchRequest{Query: "dune", Count: intPtr(50), Offset: -10, Language: " English ", Extension: "epub", Reverse: true}

		q, err := req.Validate()

		require.NoError(t, err)
		assert.Equal(t, 50, q.Count)
		assert.Equal(t, 0, q.Offset)
		assert.Equal(t, "English", q.Language)
		assert.Equal(t, "epub", q.Extension)
		assert.True(t, q.Reverse)
	})

	t.Run("multibyte two character query is accepted", func(t *testing.T) {
		req := SearchRequest{Query: "三体"}

		_, err := req.Validate()

		assert.NoError(t, err)
	})
}

func TestDownloadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		md5     string
		want    string
		wantErr error
	}{
		{name: "valid lowercase", md5: "d41d8cd98f00b204e9800998ecf8427e", want: "d41d8cd98f00b204e9800998ecf8427e"},
		{name: "valid uppercase trimmed", md5: "  D41D8CD98F00B204E9800998ECF8427E\n", want: "D41D8CD98F00B204E9800998ECF8427E"},
		{name: "missing", md5: "", wantErr: ErrMD5Required},
		{name: "too short", md5: "abc", wantErr: ErrMD5Format},
		{name: "non hex", md5: "g41d8cd98f00b204e9800998ecf8427e", wantErr: ErrMD5Format},
		{name: "too long", md5: "d41d8cd98f00b204e9800998ecf8427e0", wantErr: ErrMD5Format},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DownloadRequest{MD5: tt.md5}

			got, err := req.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, ValidMD5(tt.md5))
		})
	}
}

func TestCoverLookupQuery_ToModel(t *testing.T) {
	q := CoverLookupQuery{ISBN: " 0441172717 ", Title: "Dune", Author: "Unknown Author"}

	m := q.ToModel()

	assert.Equal(t, "0441172717", m.ISBN)
	assert.Equal(t, "Dune", m.Title)
	assert.Empty(t, m.Author)
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "md5: must be 32 hexadecimal characters", ErrMD5Format.Error())
}
