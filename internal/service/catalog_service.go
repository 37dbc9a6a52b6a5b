package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campusdesk/helpdesk-service/internal/domain"
	"github.com/campusdesk/helpdesk-service/internal/repository"
)

const catalogCacheKey = "catalogos:v1"

// Catalogs groups the four lookup lists clients need to render forms.
// Every list is present even when empty.
type Catalogs struct {
	Categories []domain.CatalogEntry
	Priorities []domain.CatalogEntry
	Statuses   []domain.CatalogEntry
	Areas      []domain.CatalogEntry
}

// CatalogService resolves the reference catalogs with a cache-aside layer
// in front of Postgres. The data is immutable, so a short TTL is only a
// hedge against out-of-band reseeding.
type CatalogService struct {
	catalogs repository.CatalogRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService constructs the service. cache may be nil.
func NewCatalogService(catalogs repository.CatalogRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{catalogs: catalogs, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns all four catalogs. The four reads run in parallel and the
// call fails if any one of them fails; an individual catalog with no rows
// yields an empty list, never an error. Cache failures fall through to
// Postgres.
func (s *CatalogService) List(ctx context.Context) (*Catalogs, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var result Catalogs
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		result.Categories, err = s.catalogs.ListByType(groupCtx, domain.CatalogCategoria)
		return err
	})
	group.Go(func() (err error) {
		result.Priorities, err = s.catalogs.ListByType(groupCtx, domain.CatalogPrioridad)
		return err
	})
	group.Go(func() (err error) {
		result.Statuses, err = s.catalogs.ListByType(groupCtx, domain.CatalogEstado)
		return err
	})
	group.Go(func() (err error) {
		result.Areas, err = s.catalogs.ListByType(groupCtx, domain.CatalogArea)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	s.toCache(ctx, &result)
	return &result, nil
}

func (s *CatalogService) fromCache(ctx context.Context) *Catalogs {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
		return nil
	}
	var cached Catalogs
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.logger.Warn("catalog cache entry corrupt; ignoring", zap.Error(err))
		return nil
	}
	return &cached
}

func (s *CatalogService) toCache(ctx context.Context, catalogs *Catalogs) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(catalogs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, catalogCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}
}
