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

// Download handles POST /api/download.
//
// @Summary      Resolve a direct download link
// @Description  Reads the catalog's download page for the md5, extracts the download key and returns a get.php link on a randomly chosen mirror.
// @Tags         Downloads
// @Accept       json
// @Produce      json
// @Param        request body dto.DownloadRequest true "Book md5"
// @Success      200 {object} dto.DownloadResponse "Direct download link"
// @Failure      400 {object} dto.ErrorResponse "Missing or invalid md5"
// @Failure      404 {object} dto.ErrorResponse "No download key on the page"
// @Failure      405 {object} dto.ErrorResponse "Method not allowed"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      502 {object} dto.ErrorResponse "Download page unreachable"
// @Router       /api/download [post]
func (h *Handler) Download(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.DownloadRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	md5, err := req.Validate()
	if err != nil {
		key := i18n.ErrKeyInvalidMD5
		if errors.Is(err, dto.ErrMD5Required) {
			key = i18n.ErrKeyMD5Required
		}
		builder.Error(http.StatusBadRequest, key, err)
		return
	}

	link, err := h.downloads.Resolve(c.Request.Context(), md5)
	if err != nil {
		fields := map[string]interface{}{"md5": md5}
		switch {
		case errors.Is(err, service.ErrInvalidFormat):
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidMD5, err)
		case errors.Is(err, service.ErrKeyNotFound):
			middleware.RecordActivityError(c, model.ActivityDownload, "Download key not found", err, fields)
			builder.Error(http.StatusNotFound, i18n.ErrKeyKeyNotFound, err)
		case errors.Is(err, service.ErrUpstreamUnavailable):
			middleware.RecordActivityError(c, model.ActivityDownload, "Download page unavailable", err, fields)
			builder.Error(http.StatusBadGateway, i18n.ErrKeyDownloadFailed, err)
		default:
			middleware.RecordActivityError(c, model.ActivityDownload, "Download resolution failed", err, fields)
			builder.Error(http.StatusInternalServerError, i18n.ErrKeyDownloadFailed, err)
		}
		return
	}

	middleware.RecordActivity(c, model.ActivityDownload, "Download link resolved", map[string]interface{}{"md5": md5})
	builder.JSON(http.StatusOK, dto.DownloadResponse{DirectURL: link})
}
