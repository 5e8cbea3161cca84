package http

import (
	"github.com/gin-gonic/gin"
)

// PublicRouteGroup defines routes that don't require authentication.
type PublicRouteGroup interface {
	// RegisterPublicRoutes registers public routes to the given router group.
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

var _ PublicRouteGroup = (*LibraryRoutes)(nil)

// LibraryRoutes registers the book routes under /api.
type LibraryRoutes struct {
	handler *Handler
}

// NewLibraryRoutes creates a new LibraryRoutes instance.
func NewLibraryRoutes(handler *Handler) *LibraryRoutes {
	return &LibraryRoutes{handler: handler}
}

// RegisterPublicRoutes registers every library endpoint. All of them are public.
func (r *LibraryRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/cover-lookup", r.handler.CoverLookup)
	rg.DELETE("/cover-lookup", r.handler.InvalidateCover)
	rg.GET("/book-cover", r.handler.CoverLookup)
	rg.GET("/image-proxy", r.handler.ImageProxy)

	rg.POST("/download", r.handler.Download)
	rg.POST("/search", r.handler.Search)
	rg.GET("/metadata", r.handler.Metadata)

	rg.GET("/cache/stats", r.handler.CacheStats)
	rg.GET("/activity", r.handler.Activity)
}
