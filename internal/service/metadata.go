package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/catalog"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

// MetadataTTL is how long a looked-up book stays cached.
const MetadataTTL = time.Hour

// MetadataLookup returns a single book by md5.
type MetadataLookup interface {
	Lookup(ctx context.Context, md5 string) (model.Book, error)
}

// MetadataService looks books up by md5 through the metadata cache. Unknown
// hashes are not cached.
type MetadataService struct {
	catalog Catalog
	cache   *cache.Cache[model.Book]
}

// NewMetadataService returns a metadata service caching into c.
func NewMetadataService(cat Catalog, c *cache.Cache[model.Book]) *MetadataService {
	return &MetadataService{catalog: cat, cache: c}
}

// Lookup implements MetadataLookup.
func (s *MetadataService) Lookup(ctx context.Context, md5 string) (model.Book, error) {
	md5 = strings.TrimSpace(md5)
	if !md5Format.MatchString(md5) {
		return model.Book{}, ErrInvalidFormat
	}

	key := cache.MetadataKey(md5)
	if book, ok := s.cache.Get(key); ok {
		return book, nil
	}

	rec, err := s.catalog.FindByMD5(ctx, md5)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return model.Book{}, ErrNotFound
		}
		log.Warn().Err(err).Str("md5", md5).Msg("Metadata lookup failed")
		return model.Book{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	book := NormalizeBook(*rec)
	s.cache.SetWithTTL(key, book, MetadataTTL)
	return book, nil
}
