// internal/store/cache_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T, ttl time.Duration) (*BenchmarkCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewBenchmarkCache(client, ttl), mr
}

func sampleBenchmark(domain catalog.DomainName) *models.Benchmark {
	avg := 70.0
	return &models.Benchmark{
		Domain:      domain,
		PeerAverage: &avg,
		PeerCount:   2,
		Series: []models.BenchmarkPoint{
			{Label: "Company A", Percentage: 60},
			{Label: "Company B", Percentage: 80},
		},
		GeneratedAt: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestBenchmarkKey(t *testing.T) {
	assert.Equal(t, "benchmark:understand-usage-cost:org", BenchmarkKey(catalog.DomainUnderstandUsageCost, "org"))
	assert.Equal(t, "benchmark:manage-the-finops-practice:abc", BenchmarkKey(catalog.DomainManagePractice, "abc"))
}

func TestBenchmarkCache_RoundTripAndExpiry(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	_, hit, err := cache.Get(ctx, catalog.DomainUnderstandUsageCost, "org")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "org", sampleBenchmark(catalog.DomainUnderstandUsageCost)))
	assert.Equal(t, time.Minute, mr.TTL(BenchmarkKey(catalog.DomainUnderstandUsageCost, "org")))

	got, hit, err := cache.Get(ctx, catalog.DomainUnderstandUsageCost, "org")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 2, got.PeerCount)
	require.NotNil(t, got.PeerAverage)
	assert.Equal(t, 70.0, *got.PeerAverage)
	assert.Len(t, got.Series, 2)

	mr.FastForward(2 * time.Minute)
	_, hit, err = cache.Get(ctx, catalog.DomainUnderstandUsageCost, "org")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestBenchmarkCache_InvalidateDomain(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "org-a", sampleBenchmark(catalog.DomainUnderstandUsageCost)))
	require.NoError(t, cache.Set(ctx, "org-b", sampleBenchmark(catalog.DomainUnderstandUsageCost)))
	require.NoError(t, cache.Set(ctx, "org-a", sampleBenchmark(catalog.DomainOptimizeUsageCost)))

	require.NoError(t, cache.InvalidateDomain(ctx, catalog.DomainUnderstandUsageCost))

	assert.False(t, mr.Exists(BenchmarkKey(catalog.DomainUnderstandUsageCost, "org-a")))
	assert.False(t, mr.Exists(BenchmarkKey(catalog.DomainUnderstandUsageCost, "org-b")))
	assert.True(t, mr.Exists(BenchmarkKey(catalog.DomainOptimizeUsageCost, "org-a")))
}

func TestBenchmarkCache_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("get failure", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewBenchmarkCache(client, time.Minute)
		mock.ExpectGet(BenchmarkKey(catalog.DomainManagePractice, "org")).SetErr(errors.New("connection refused"))

		_, hit, err := cache.Get(ctx, catalog.DomainManagePractice, "org")
		assert.False(t, hit)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCacheUnavailable))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt entry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewBenchmarkCache(client, time.Minute)
		mock.ExpectGet(BenchmarkKey(catalog.DomainManagePractice, "org")).SetVal("{not json")

		_, hit, err := cache.Get(ctx, catalog.DomainManagePractice, "org")
		assert.False(t, hit)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCacheUnavailable))
	})

	t.Run("scan failure", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewBenchmarkCache(client, time.Minute)
		mock.ExpectScan(0, "benchmark:manage-the-finops-practice:*", 100).SetErr(errors.New("timeout"))

		err := cache.InvalidateDomain(ctx, catalog.DomainManagePractice)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCacheUnavailable))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBenchmarkCache_NilIsNoop(t *testing.T) {
	var cache *BenchmarkCache
	ctx := context.Background()

	assert.Nil(t, NewBenchmarkCache(nil, time.Minute))
	_, hit, err := cache.Get(ctx, catalog.DomainManagePractice, "org")
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.Set(ctx, "org", sampleBenchmark(catalog.DomainManagePractice)))
	assert.NoError(t, cache.InvalidateDomain(ctx, catalog.DomainManagePractice))
}
