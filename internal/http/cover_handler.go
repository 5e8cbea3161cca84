package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/dto"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/i18n"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/middleware"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
)

// CoverLookup handles GET /api/cover-lookup and its /api/book-cover alias.
//
// @Summary      Look up a book cover
// @Description  Resolves a cover image for the book through a cascade of sources (Open Library, Google Books, Goodreads, Amazon, the catalog) and returns a same-origin image proxy URL. At least one of isbn, title or rawCoverUrl is required. Results, including misses, are cached server-side.
// @Tags         Covers
// @Produce      json
// @Param        isbn         query string false "ISBN-10 or ISBN-13"
// @Param        title        query string false "Book title"
// @Param        author       query string false "Book author"
// @Param        rawCoverUrl  query string false "Catalog cover path or URL"
// @Success      200 {object} dto.CoverResponse "Cover found"
// @Failure      400 {object} dto.ErrorResponse "Missing identifier"
// @Failure      404 {object} dto.ErrorResponse "No cover image found"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/cover-lookup [get]
func (h *Handler) CoverLookup(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var query dto.CoverLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	q := query.ToModel()

	res, err := h.covers.Lookup(c.Request.Context(), q)
	switch {
	case err == nil:
		middleware.RecordActivity(c, model.ActivityCover, "Cover found", coverFields(q, res.Source))
		builder.CachedJSON(http.StatusOK, coverCacheControl, dto.CoverResponse{
			CoverURL: service.ProxyURL(h.baseURL(c), res.CoverURL),
			Source:   res.Source,
		})
	case errors.Is(err, service.ErrMissingIdentifier):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyMissingIdentifier, err)
	case errors.Is(err, service.ErrNotFound):
		middleware.RecordActivity(c, model.ActivityCover, "Cover not found", coverFields(q, service.NoCoverSource))
		resp := dto.NewError(dto.ErrCodeNotFound, service.NoCoverMessage).WithRequestID(middleware.GetRequestID(c))
		resp.Source = service.NoCoverSource
		c.AbortWithStatusJSON(http.StatusNotFound, resp)
	default:
		middleware.RecordActivityError(c, model.ActivityCover, "Cover lookup failed", err, coverFields(q, ""))
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyCoverLookupFailed, err)
	}
}

// InvalidateCover handles DELETE /api/cover-lookup.
//
// @Summary      Forget a cached cover
// @Description  Drops the cached lookup result for the query so the next lookup runs the cascade again. Used when a returned image fails to load.
// @Tags         Covers
// @Param        isbn         query string false "ISBN-10 or ISBN-13"
// @Param        title        query string false "Book title"
// @Param        author       query string false "Book author"
// @Param        rawCoverUrl  query string false "Catalog cover path or URL"
// @Success      204 "Cache entry removed"
// @Failure      400 {object} dto.ErrorResponse "Missing identifier"
// @Router       /api/cover-lookup [delete]
func (h *Handler) InvalidateCover(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var query dto.CoverLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	q := query.ToModel()
	if !q.HasIdentifier() {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyMissingIdentifier, nil)
		return
	}

	h.covers.Invalidate(q)
	middleware.RecordActivity(c, model.ActivityCover, "Cover invalidated", coverFields(q, ""))
	c.Status(http.StatusNoContent)
}

func coverFields(q model.CoverQuery, source string) map[string]interface{} {
	fields := map[string]interface{}{}
	if q.ISBN != "" {
		fields["isbn"] = q.ISBN
	}
	if q.Title != "" {
		fields["title"] = q.Title
	}
	if source != "" {
		fields["source"] = source
	}
	return fields
}
