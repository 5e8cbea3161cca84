// Package app provides service initialization.
package app

import (
	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/catalog"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream"
)

// Cache names and capacities.
const (
	coverCacheName    = "covers"
	searchCacheName   = "search"
	metadataCacheName = "metadata"

	coverCacheSize    = 1000
	searchCacheSize   = 100
	metadataCacheSize = 200
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Covers    *service.CoverService
	Images    *service.ImageProxy
	Downloads *service.DownloadResolver
	Searcher  *service.SearchService
	Metadata  *service.MetadataService

	CoverCache    *cache.Cache[model.CoverResult]
	SearchCache   *cache.Cache[model.SearchResult]
	MetadataCache *cache.Cache[model.Book]

	// Upstreams holds one breaker per outbound host.
	Upstreams *circuitbreaker.Group
}

// InitializeServices builds the caches and the business services. store may be nil.
func InitializeServices(cfg config.Config, store cache.Store) *ServiceComponents {
	var cacheOpts []cache.Option
	if store != nil {
		cacheOpts = append(cacheOpts, cache.WithStore(store))
	}

	coverCache := cache.New[model.CoverResult](cache.Config{
		Name:           coverCacheName,
		MaxEntries:     coverCacheSize,
		DefaultTTL:     service.CoverSuccessTTL,
		PersistenceKey: "cover_cache",
	}, cacheOpts...)
	searchCache := cache.New[model.SearchResult](cache.Config{
		Name:           searchCacheName,
		MaxEntries:     searchCacheSize,
		DefaultTTL:     service.SearchTTL,
		PersistenceKey: "search_cache",
	}, cacheOpts...)
	metadataCache := cache.New[model.Book](cache.Config{
		Name:           metadataCacheName,
		MaxEntries:     metadataCacheSize,
		DefaultTTL:     service.MetadataTTL,
		PersistenceKey: "metadata_cache",
	}, cacheOpts...)

	upstreams := circuitbreaker.NewGroup(newBreakerConfig(cfg.Upstream.CircuitBreaker, "upstream", upstream.IsBreakerFailure))
	client := upstream.NewClient(upstream.WithBreakers(upstreams))

	strategyCfg := service.DefaultStrategyConfig()
	strategyCfg.ProbeTimeout = cfg.Upstream.ProbeTimeout
	strategyCfg.API = upstream.Policy{
		Timeout:  cfg.Upstream.Timeout,
		Retries:  cfg.Upstream.Retries,
		Interval: cfg.Upstream.RetryInterval,
	}
	cascade := service.NewCascade(service.NewCoverStrategies(
		client,
		service.DefaultCoverSources(cfg.Catalog.CoverBase),
		strategyCfg,
	)...)

	catalogClient := catalog.NewClient(cfg.Catalog.Mirror, client, cfg.Catalog.SearchTimeout)

	return &ServiceComponents{
		Covers: service.NewCoverService(cascade, coverCache),
		Images: service.NewImageProxy(
			service.NewAllowList(cfg.Proxy.ExtraDomains...),
			cfg.Proxy.Timeout,
			upstream.WithBreakers(upstreams),
		),
		Downloads: service.NewDownloadResolver(client, cfg.Catalog.DownloadBase, cfg.Catalog.DownloadMirrors,
			service.WithDownloadPolicy(upstream.Policy{
				Timeout:  cfg.Upstream.DownloadTimeout,
				Retries:  cfg.Upstream.DownloadRetries,
				Interval: cfg.Upstream.RetryInterval,
			}),
		),
		Searcher:      service.NewSearchService(catalogClient, searchCache),
		Metadata:      service.NewMetadataService(catalogClient, metadataCache),
		CoverCache:    coverCache,
		SearchCache:   searchCache,
		MetadataCache: metadataCache,
		Upstreams:     upstreams,
	}
}
