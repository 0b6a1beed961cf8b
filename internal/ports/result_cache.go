package ports

import (
	"context"
	"flight-route-service/internal/domain"
	"time"
)

// Contract for caching priced search results by request key.
type ResultCache interface {
	// Return cached results and whether the key was present.
	Get(ctx context.Context, key string) ([]domain.PricedResult, bool, error)
	// Store results under key for ttl.
	Set(ctx context.Context, key string, results []domain.PricedResult, ttl time.Duration) error
}
