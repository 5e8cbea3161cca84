package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyMethodNotAllowed   = "error.method_not_allowed"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyServiceUnavailable = "error.service_unavailable"

	// ErrKeyMissingIdentifier is returned when a cover lookup has neither isbn nor title.
	ErrKeyMissingIdentifier = "error.missing_identifier"
	ErrKeyCoverLookupFailed = "error.cover_lookup_failed"

	ErrKeyURLRequired = "error.url_required"
	ErrKeyInvalidURL  = "error.invalid_url"
	// ErrKeyForbiddenDomain takes the rejected hostname as its only argument.
	ErrKeyForbiddenDomain = "error.forbidden_domain"
	ErrKeyNotImage        = "error.not_image"
	// ErrKeyUpstreamStatus takes the upstream status line as its only argument.
	ErrKeyUpstreamStatus = "error.upstream_status"
	ErrKeyProxyFailed    = "error.proxy_failed"

	ErrKeyMD5Required    = "error.md5_required"
	ErrKeyInvalidMD5     = "error.invalid_md5"
	ErrKeyKeyNotFound    = "error.key_not_found"
	ErrKeyDownloadFailed = "error.download_failed"

	ErrKeyQueryRequired = "error.query_required"
	ErrKeyQueryTooShort = "error.query_too_short"
	ErrKeySearchFailed  = "error.search_failed"

	ErrKeyBookNotFound   = "error.book_not_found"
	ErrKeyMetadataFailed = "error.metadata_failed"

	ErrKeyActivityDisabled = "error.activity_disabled"
	ErrKeyActivityFailed   = "error.activity_failed"
)
