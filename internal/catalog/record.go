package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is one catalog entry as returned by the mirror's json.php.
type Record struct {
	ID          Field `json:"id"`
	Title       Field `json:"title"`
	Author      Field `json:"author"`
	Year        Field `json:"year"`
	Pages       Field `json:"pages"`
	Language    Field `json:"language"`
	Filesize    Field `json:"filesize"`
	Extension   Field `json:"extension"`
	MD5         Field `json:"md5"`
	Publisher   Field `json:"publisher"`
	Series      Field `json:"series"`
	Identifier  Field `json:"identifier"`
	CoverURL    Field `json:"coverurl"`
	Tags        Field `json:"tags"`
	Topic       Field `json:"topic"`
	VolumeInfo  Field `json:"volumeinfo"`
	Periodical  Field `json:"periodical"`
	City        Field `json:"city"`
	Edition     Field `json:"edition"`
	Commentary  Field `json:"commentary"`
	DPI         Field `json:"dpi"`
	Color       Field `json:"color"`
	Cleaned     Field `json:"cleaned"`
	Orientation Field `json:"orientation"`
	Paginated   Field `json:"paginated"`
	Scanned     Field `json:"scanned"`
	Bookmarked  Field `json:"bookmarked"`
	Searchable  Field `json:"searchable"`
}

// Field is a string that also accepts JSON numbers, booleans and null;
// mirrors disagree on how they type numeric columns.
type Field string

// String returns the field as a plain string.
func (f Field) String() string {
	return string(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*f = Field(b)
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return err
		}
		*f = Field(b)
	}
	return nil
}
