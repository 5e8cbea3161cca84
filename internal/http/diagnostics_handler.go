package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/dto"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/i18n"
)

// CacheStats handles GET /api/cache/stats.
//
// @Summary      Cache diagnostics
// @Description  Reports entry counts and age range for the cover, search and metadata caches, and the state of every circuit breaker.
// @Tags         Diagnostics
// @Produce      json
// @Success      200 {object} dto.CacheStatsResponse "Cache statistics"
// @Router       /api/cache/stats [get]
func (h *Handler) CacheStats(c *gin.Context) {
	resp := dto.CacheStatsResponse{Caches: make([]cache.Stats, 0, len(h.caches))}
	for _, cs := range h.caches {
		resp.Caches = append(resp.Caches, cs.Stats())
	}
	for _, bs := range h.breakers {
		resp.Breakers = append(resp.Breakers, bs.Stats()...)
	}
	if resp.Breakers == nil {
		resp.Breakers = []circuitbreaker.Stats{}
	}
	c.Header("Cache-Control", "no-store")
	NewResponseBuilder(c).JSON(http.StatusOK, resp)
}

// Activity handles GET /api/activity.
//
// @Summary      Recent activity
// @Description  Lists recorded requests and domain actions (cover lookups, downloads, searches), newest first. Requires MongoDB.
// @Tags         Diagnostics
// @Produce      json
// @Param        type        query string false "Activity type" Enums(request, cover_lookup, download, search)
// @Param        level       query string false "Log level" Enums(info, warn, error)
// @Param        request_id  query string false "Request ID"
// @Param        path        query string false "Case-insensitive path substring"
// @Param        since       query string false "RFC 3339 lower bound"
// @Param        until       query string false "RFC 3339 upper bound"
// @Param        limit       query int    false "Page size (default 50, max 500)"
// @Param        skip        query int    false "Entries to skip"
// @Success      200 {object} service.ActivityPage "Activity page"
// @Failure      400 {object} dto.ErrorResponse "Invalid filter"
// @Failure      500 {object} dto.ErrorResponse "Query failed"
// @Failure      503 {object} dto.ErrorResponse "Activity log disabled"
// @Router       /api/activity [get]
func (h *Handler) Activity(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.activity == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyActivityDisabled, nil)
		return
	}

	opts, err := activityQuery(c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	page, err := h.activity.Recent(c.Request.Context(), opts)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyActivityFailed, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	builder.JSON(http.StatusOK, page)
}

// activityQuery parses the activity filters from the query string.
func activityQuery(c *gin.Context) (model.LogQueryOptions, error) {
	opts := model.LogQueryOptions{
		RequestID:    c.Query("request_id"),
		Level:        c.Query("level"),
		ActivityType: c.Query("type"),
		Path:         c.Query("path"),
	}

	var err error
	if opts.Limit, err = intQuery(c, "limit"); err != nil {
		return opts, err
	}
	if opts.Skip, err = intQuery(c, "skip"); err != nil {
		return opts, err
	}
	if opts.StartTime, err = timeQuery(c, "since"); err != nil {
		return opts, err
	}
	if opts.EndTime, err = timeQuery(c, "until"); err != nil {
		return opts, err
	}
	return opts, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", name, err)
	}
	return &t, nil
}
