// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/models"

	"github.com/redis/go-redis/v9"
)

const benchmarkKeyPrefix = "benchmark:"

// BenchmarkCache keeps computed benchmarks per (domain, requesting
// organization) for a short TTL. A nil *BenchmarkCache is a valid cache
// that never hits.
type BenchmarkCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewBenchmarkCache(client redis.Cmdable, ttl time.Duration) *BenchmarkCache {
	if client == nil {
		return nil
	}
	return &BenchmarkCache{client: client, ttl: ttl}
}

// BenchmarkKey is the cache key for one requester's view of a domain.
func BenchmarkKey(domain catalog.DomainName, orgHash string) string {
	return benchmarkKeyPrefix + domainSlug(domain) + ":" + orgHash
}

// Get returns (nil, false, nil) on a miss.
func (c *BenchmarkCache) Get(ctx context.Context, domain catalog.DomainName, orgHash string) (*models.Benchmark, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, BenchmarkKey(domain, orgHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheUnavailableError(err)
	}

	var b models.Benchmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, false, apperrors.NewCacheUnavailableError(fmt.Errorf("decode cached benchmark: %w", err))
	}
	return &b, true, nil
}

func (c *BenchmarkCache) Set(ctx context.Context, orgHash string, b *models.Benchmark) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode benchmark: %w", err)
	}
	if err := c.client.Set(ctx, BenchmarkKey(b.Domain, orgHash), data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	return nil
}

// InvalidateDomain drops every cached view of domain.
func (c *BenchmarkCache) InvalidateDomain(ctx context.Context, domain catalog.DomainName) error {
	if c == nil {
		return nil
	}
	pattern := benchmarkKeyPrefix + domainSlug(domain) + ":*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return apperrors.NewCacheUnavailableError(err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return apperrors.NewCacheUnavailableError(err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// domainSlug turns "Understand Usage & Cost" into "understand-usage-cost".
func domainSlug(domain catalog.DomainName) string {
	fields := strings.FieldsFunc(strings.ToLower(string(domain)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
