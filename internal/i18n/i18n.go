// Package i18n translates user-facing error messages.
package i18n

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

// supported is ordered so that index 0 is the fallback.
var (
	supported    = []language.Tag{language.English, language.Portuguese, language.Dutch}
	supportedIDs = []string{"en", "pt", "nl"}
	matcher      = language.NewMatcher(supported)
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msgs, ok := t.messages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Translatef translates key and formats the result with args.
func (t *Translator) Translatef(key, locale string, args ...any) string {
	return fmt.Sprintf(t.Translate(key, locale), args...)
}

// MatchLocale picks the best supported locale for an Accept-Language value.
func MatchLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedIDs[idx]
}

// GetLocale returns the locale negotiated from the request's Accept-Language header.
func GetLocale(c *gin.Context) string {
	return MatchLocale(c.GetHeader(AcceptLanguageHeader))
}

func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			ErrKeyInvalidRequest:     "Invalid request",
			ErrKeyInvalidRequestBody: "Invalid request body",
			ErrKeyInternalError:      "An unexpected error occurred",
			ErrKeyNotFound:           "Not found",
			ErrKeyMethodNotAllowed:   "Method not allowed",
			ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
			ErrKeyTimeout:            "Request timed out",
			ErrKeyServiceUnavailable: "Service unavailable",

			ErrKeyMissingIdentifier: "ISBN or title is required",
			ErrKeyCoverLookupFailed: "Internal server error while fetching cover",

			ErrKeyURLRequired:     "URL parameter is required",
			ErrKeyInvalidURL:      "Invalid URL",
			ErrKeyForbiddenDomain: "Domain not allowed: %s",
			ErrKeyNotImage:        "URL does not point to an image",
			ErrKeyUpstreamStatus:  "Failed to fetch image: %s",
			ErrKeyProxyFailed:     "Failed to proxy image",

			ErrKeyMD5Required:    "MD5 hash is required",
			ErrKeyInvalidMD5:     "Invalid MD5 format. Must be 32 hexadecimal characters.",
			ErrKeyKeyNotFound:    "Could not retrieve download link. Check if MD5 is valid.",
			ErrKeyDownloadFailed: "Failed to get download links. Please try again later.",

			ErrKeyQueryRequired: "Query is required",
			ErrKeyQueryTooShort: "Search query must be at least 2 characters long",
			ErrKeySearchFailed:  "Failed to search books. Please try again later.",

			ErrKeyBookNotFound:   "Book not found",
			ErrKeyMetadataFailed: "Failed to fetch book metadata. Please try again later.",

			ErrKeyActivityDisabled: "Activity log is not enabled",
			ErrKeyActivityFailed:   "Failed to read the activity log",
		},
		"pt": {
			ErrKeyInvalidRequest:     "Requisição inválida",
			ErrKeyInvalidRequestBody: "Corpo da requisição inválido",
			ErrKeyInternalError:      "Ocorreu um erro inesperado",
			ErrKeyNotFound:           "Não encontrado",
			ErrKeyMethodNotAllowed:   "Método não permitido",
			ErrKeyRateLimitExceeded:  "Muitas requisições, tente novamente mais tarde",
			ErrKeyTimeout:            "Tempo limite da requisição esgotado",
			ErrKeyServiceUnavailable: "Serviço indisponível",

			ErrKeyMissingIdentifier: "ISBN ou título é obrigatório",
			ErrKeyCoverLookupFailed: "Erro interno ao buscar a capa",

			ErrKeyURLRequired:     "O parâmetro URL é obrigatório",
			ErrKeyInvalidURL:      "URL inválida",
			ErrKeyForbiddenDomain: "Domínio não permitido: %s",
			ErrKeyNotImage:        "A URL não aponta para uma imagem",
			ErrKeyUpstreamStatus:  "Falha ao buscar a imagem: %s",
			ErrKeyProxyFailed:     "Falha ao intermediar a imagem",

			ErrKeyMD5Required:    "O hash MD5 é obrigatório",
			ErrKeyInvalidMD5:     "Formato MD5 inválido. Deve ter 32 caracteres hexadecimais.",
			ErrKeyKeyNotFound:    "Não foi possível obter o link de download. Verifique se o MD5 é válido.",
			ErrKeyDownloadFailed: "Falha ao obter os links de download. Tente novamente mais tarde.",

			ErrKeyQueryRequired: "A consulta é obrigatória",
			ErrKeyQueryTooShort: "A consulta deve ter pelo menos 2 caracteres",
			ErrKeySearchFailed:  "Falha ao buscar livros. Tente novamente mais tarde.",

			ErrKeyBookNotFound:   "Livro não encontrado",
			ErrKeyMetadataFailed: "Falha ao buscar os metadados do livro. Tente novamente mais tarde.",

			ErrKeyActivityDisabled: "O registro de atividades não está habilitado",
			ErrKeyActivityFailed:   "Falha ao ler o registro de atividades",
		},
		"nl": {
			ErrKeyInvalidRequest:     "Ongeldig verzoek",
			ErrKeyInvalidRequestBody: "Ongeldige aanvraag body",
			ErrKeyInternalError:      "Er is een onverwachte fout opgetreden",
			ErrKeyNotFound:           "Niet gevonden",
			ErrKeyMethodNotAllowed:   "Methode niet toegestaan",
			ErrKeyRateLimitExceeded:  "Te veel verzoeken, probeer het later opnieuw",
			ErrKeyTimeout:            "Verzoek is verlopen",
			ErrKeyServiceUnavailable: "Dienst niet beschikbaar",

			ErrKeyMissingIdentifier: "ISBN of titel is vereist",
			ErrKeyCoverLookupFailed: "Interne fout bij het ophalen van de omslag",

			ErrKeyURLRequired:     "URL-parameter is vereist",
			ErrKeyInvalidURL:      "Ongeldige URL",
			ErrKeyForbiddenDomain: "Domein niet toegestaan: %s",
			ErrKeyNotImage:        "URL verwijst niet naar een afbeelding",
			ErrKeyUpstreamStatus:  "Afbeelding ophalen mislukt: %s",
			ErrKeyProxyFailed:     "Afbeelding doorsturen mislukt",

			ErrKeyMD5Required:    "MD5-hash is vereist",
			ErrKeyInvalidMD5:     "Ongeldig MD5-formaat. Moet 32 hexadecimale tekens zijn.",
			ErrKeyKeyNotFound:    "Downloadlink kon niet worden opgehaald. Controleer of de MD5 geldig is.",
			ErrKeyDownloadFailed: "Downloadlinks ophalen mislukt. Probeer het later opnieuw.",

			ErrKeyQueryRequired: "Zoekopdracht is vereist",
			ErrKeyQueryTooShort: "Zoekopdracht moet minstens 2 tekens lang zijn",
			ErrKeySearchFailed:  "Boeken zoeken mislukt. Probeer het later opnieuw.",

			ErrKeyBookNotFound:   "Boek niet gevonden",
			ErrKeyMetadataFailed: "Boekgegevens ophalen mislukt. Probeer het later opnieuw.",

			ErrKeyActivityDisabled: "Activiteitenlogboek is niet ingeschakeld",
			ErrKeyActivityFailed:   "Activiteitenlogboek lezen mislukt",
		},
	}
}
