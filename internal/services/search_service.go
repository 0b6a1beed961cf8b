package services

import (
	"context"
	"flight-route-service/internal/domain"
	"flight-route-service/internal/platform/obs"
	"flight-route-service/internal/ports"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SearchOutcome is a sorted result set and whether it came from the cache.
type SearchOutcome struct {
	Results  []domain.PricedResult
	CacheHit bool
}

// SearchService is the caller-facing layer in front of FindRoutes.
//
// It validates requests, sorts results by total price, caches them keyed by
// the graph fingerprint, and collapses identical concurrent requests into a
// single search that no individual caller can cancel. Cache failures are
// logged and never fail a search.
type SearchService struct {
	search   *RouteSearch
	cache    ports.ResultCache
	cacheTTL time.Duration
	group    singleflight.Group
}

// cache may be nil, which disables caching.
func NewSearchService(search *RouteSearch, cache ports.ResultCache, cacheTTL time.Duration) *SearchService {
	return &SearchService{
		search:   search,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *SearchService) Graph() *ConnectionGraph { return s.search.Graph() }

// Stay only matters for round trips, so one-way keys always use zero.
func (s *SearchService) cacheKey(req FindRoutesRequest) string {
	stay := 0
	if req.Return {
		stay = req.StayDays
	}
	return fmt.Sprintf(
		"routes:%016x:%s:%s:%t:%d:%d",
		s.search.Graph().Fingerprint(),
		req.Origin, req.Destination, req.Return, stay, req.Bags,
	)
}

func (s *SearchService) Find(ctx context.Context, req FindRoutesRequest) (_ SearchOutcome, err error) {
	defer obs.Time(ctx, "routes.search")(&err)

	if err := req.Validate(); err != nil {
		return SearchOutcome{}, fmt.Errorf("search routes: %w", err)
	}

	key := s.cacheKey(req)

	if s.cache != nil {
		cached, ok, cerr := s.cache.Get(ctx, key)
		if cerr != nil {
			zap.L().Warn("result cache get failed",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.String("key", key),
				zap.Error(cerr),
			)
		} else if ok {
			return SearchOutcome{Results: cached, CacheHit: true}, nil
		}
	}

	// The shared search outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := s.group.DoChan(key, func() (any, error) {
		sctx := context.WithoutCancel(ctx)

		results, err := FindRoutes(sctx, s.search, req)
		if err != nil {
			return nil, err
		}
		SortByTotalPrice(results)

		if s.cache != nil {
			if cerr := s.cache.Set(sctx, key, results, s.cacheTTL); cerr != nil {
				zap.L().Warn("result cache set failed",
					zap.String("req_id", obs.RequestID(sctx)),
					zap.String("key", key),
					zap.Error(cerr),
				)
			}
		}
		return results, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return SearchOutcome{}, fmt.Errorf("search routes: %w", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return SearchOutcome{}, fmt.Errorf("search routes: %w", res.Err)
	}

	return SearchOutcome{Results: res.Val.([]domain.PricedResult)}, nil
}
