package http

import (
	"github.com/gin-gonic/gin"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/dto"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/i18n"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/middleware"
)

// ResponseBuilder writes JSON bodies and translated error envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// JSON sends data as the response body.
func (b *ResponseBuilder) JSON(statusCode int, data interface{}) {
	b.c.JSON(statusCode, data)
}

// CachedJSON sends data with a Cache-Control header.
func (b *ResponseBuilder) CachedJSON(statusCode int, cacheControl string, data interface{}) {
	b.c.Header("Cache-Control", cacheControl)
	b.c.JSON(statusCode, data)
}

// Error sends an error response with the given status code and message key.
// err, when non-nil, is attached to the context for ErrorHandler and RequestLogger.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.Errorf(statusCode, messageKey, err)
}

// Errorf is Error for message keys that take format arguments.
func (b *ResponseBuilder) Errorf(statusCode int, messageKey string, err error, args ...interface{}) {
	locale := i18n.GetLocale(b.c)
	message := i18n.GetTranslator().Translatef(messageKey, locale, args...)
	b.ErrorWithMessage(statusCode, message, err)
}

// ErrorWithMessage sends an error response with a custom message.
func (b *ResponseBuilder) ErrorWithMessage(statusCode int, message string, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	resp := dto.NewError(dto.ErrCodeFromStatus(statusCode), message).
		WithRequestID(middleware.GetRequestID(b.c))
	b.c.AbortWithStatusJSON(statusCode, resp)
}

// BuildRequest binds the JSON body into a new T.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
