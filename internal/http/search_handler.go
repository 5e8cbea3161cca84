package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/dto"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/i18n"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/middleware"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
)

// Search handles POST /api/search.
//
// @Summary      Search the catalog
// @Description  Searches the catalog mirror and returns one page of normalised books. Filters (topic, year range, language, extension) are folded into the query. Results are cached server-side for 10 minutes, empty results for 5 seconds.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request body dto.SearchRequest true "Search query and filters"
// @Success      200 {object} dto.SearchResponse "One page of results"
// @Failure      400 {object} dto.ErrorResponse "Missing or too short query"
// @Failure      405 {object} dto.ErrorResponse "Method not allowed"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      502 {object} dto.ErrorResponse "Catalog unreachable"
// @Router       /api/search [post]
func (h *Handler) Search(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.SearchRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	q, err := req.Validate()
	if err != nil {
		key := i18n.ErrKeyQueryTooShort
		if errors.Is(err, dto.ErrQueryRequired) {
			key = i18n.ErrKeyQueryRequired
		}
		builder.Error(http.StatusBadRequest, key, err)
		return
	}

	res, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		fields := map[string]interface{}{"query": q.Query}
		switch {
		case errors.Is(err, service.ErrQueryRequired):
			builder.Error(http.StatusBadRequest, i18n.ErrKeyQueryRequired, err)
		case errors.Is(err, service.ErrQueryTooShort):
			builder.Error(http.StatusBadRequest, i18n.ErrKeyQueryTooShort, err)
		case errors.Is(err, service.ErrUpstreamUnavailable):
			middleware.RecordActivityError(c, model.ActivitySearch, "Catalog search failed", err, fields)
			builder.Error(http.StatusBadGateway, i18n.ErrKeySearchFailed, err)
		default:
			middleware.RecordActivityError(c, model.ActivitySearch, "Catalog search failed", err, fields)
			builder.Error(http.StatusInternalServerError, i18n.ErrKeySearchFailed, err)
		}
		return
	}

	middleware.RecordActivity(c, model.ActivitySearch, "Catalog search", map[string]interface{}{
		"query":   q.Query,
		"results": res.TotalResults,
		"offset":  q.Offset,
	})
	builder.CachedJSON(http.StatusOK, searchCacheControl, dto.NewSearchResponse(res))
}

// Metadata handles GET /api/metadata.
//
// @Summary      Look up a book by md5
// @Description  Returns the normalised catalog record for the md5. Found records are cached for one hour.
// @Tags         Search
// @Produce      json
// @Param        md5 query string true "32 hexadecimal characters"
// @Success      200 {object} model.Book "Catalog record"
// @Failure      400 {object} dto.ErrorResponse "Missing or invalid md5"
// @Failure      404 {object} dto.ErrorResponse "Unknown md5"
// @Failure      502 {object} dto.ErrorResponse "Catalog unreachable"
// @Router       /api/metadata [get]
func (h *Handler) Metadata(c *gin.Context) {
	builder := NewResponseBuilder(c)

	md5 := strings.TrimSpace(c.Query("md5"))
	if md5 == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyMD5Required, nil)
		return
	}
	if !dto.ValidMD5(md5) {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidMD5, nil)
		return
	}

	book, err := h.metadata.Lookup(c.Request.Context(), md5)
	switch {
	case err == nil:
		builder.JSON(http.StatusOK, book)
	case errors.Is(err, service.ErrInvalidFormat):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidMD5, err)
	case errors.Is(err, service.ErrNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyBookNotFound, err)
	case errors.Is(err, service.ErrUpstreamUnavailable):
		builder.Error(http.StatusBadGateway, i18n.ErrKeyMetadataFailed, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyMetadataFailed, err)
	}
}
