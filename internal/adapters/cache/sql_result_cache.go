package cache

import (
	"context"
	"database/sql"
	"errors"
	"flight-route-service/internal/domain"
	"flight-route-service/internal/platform/obs"
	"fmt"
	"strings"
	"time"
)

// SQLResultCache is a Postgres-backed cache for priced search results.
// Rows live in the route_cache table created by repositories.InitSchema.
type SQLResultCache struct {
	DB *sql.DB
}

func NewSQLResultCache(db *sql.DB) *SQLResultCache {
	return &SQLResultCache{DB: db}
}

// Fetch a cached result set. Expired rows count as misses.
func (s *SQLResultCache) Get(ctx context.Context, key string) (_ []domain.PricedResult, _ bool, err error) {
	defer obs.Time(ctx, "result.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("result cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get result cache: key must not be empty")
	}

	q := `
	SELECT payload
	FROM route_cache
	WHERE cache_key = $1
		AND expires_at > NOW();
	`

	var raw []byte
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get result cache: query route_cache table: %w", err)
	}

	out, err := decodeResults(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get result cache: decode key %q: %w", key, err)
	}
	return out, true, nil
}

// Store a result set, replacing any previous entry for key.
func (s *SQLResultCache) Set(ctx context.Context, key string, results []domain.PricedResult, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "result.cache.sql.Set")(&err)

	if s.DB == nil {
		return errors.New("result cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert result cache: key must not be empty")
	}

	raw, err := encodeResults(results)
	if err != nil {
		return fmt.Errorf("insert result cache: encode key %q: %w", key, err)
	}

	q := `
	INSERT INTO route_cache (cache_key, payload, expires_at)
	VALUES ($1, $2, NOW() + make_interval(secs => $3))
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, key, raw, ttl.Seconds()); err != nil {
		return fmt.Errorf("insert result cache key=%q: %w", key, err)
	}
	return nil
}

// Delete expired rows and report how many were removed.
func (s *SQLResultCache) Purge(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("result cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_cache WHERE expires_at <= NOW();`)
	if err != nil {
		return 0, fmt.Errorf("purge result cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge result cache: rows affected: %w", err)
	}
	return n, nil
}
