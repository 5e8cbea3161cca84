//go:build !integration

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTranslator_Singleton(t *testing.T) {
	assert.Same(t, GetTranslator(), GetTranslator())
}

func TestTranslator_Translate(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		name   string
		key    string
		locale string
		want   string
	}{
		{name: "english", key: ErrKeyQueryTooShort, locale: "en", want: "Search query must be at least 2 characters long"},
		{name: "portuguese", key: ErrKeyMD5Required, locale: "pt", want: "O hash MD5 é obrigatório"},
		{name: "dutch", key: ErrKeyBookNotFound, locale: "nl", want: "Boek niet gevonden"},
		{name: "unknown locale falls back to english", key: ErrKeyNotImage, locale: "fr", want: "URL does not point to an image"},
		{name: "unknown key is returned as-is", key: "error.nope", locale: "pt", want: "error.nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Translate(tt.key, tt.locale))
		})
	}
}

func TestTranslator_Translatef(t *testing.T) {
	tr := NewTranslator()

	assert.Equal(t, "Domain not allowed: evil.example.com", tr.Translatef(ErrKeyForbiddenDomain, "en", "evil.example.com"))
	assert.Equal(t, "Afbeelding ophalen mislukt: Not Found", tr.Translatef(ErrKeyUpstreamStatus, "nl", "Not Found"))
}

func TestMessages_EveryLocaleHasEveryKey(t *testing.T) {
	msgs := getDefaultMessages()
	english := msgs[DefaultLocale]

	for _, locale := range supportedIDs {
		t.Run(locale, func(t *testing.T) {
			got, ok := msgs[locale]
			assert.True(t, ok)
			assert.Equal(t, keysOf(english), keysOf(got))
			for key, msg := range got {
				assert.NotEmpty(t, msg, key)
			}
		})
	}
}

func keysOf(m map[string]string) map[string]struct{} {
	keys := make(map[string]struct{}, len(m))
	for k := range m {
		keys[k] = struct{}{}
	}
	return keys
}

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: "en"},
		{header: "pt-BR,pt;q=0.9,en;q=0.8", want: "pt"},
		{header: "nl-BE", want: "nl"},
		{header: "de-DE,nl;q=0.5", want: "nl"},
		{header: "ja", want: "en"},
		{header: ";;;", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLocale(tt.header))
		})
	}
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/search", nil)
	c.Request.Header.Set(AcceptLanguageHeader, "pt-PT")

	assert.Equal(t, "pt", GetLocale(c))
}
