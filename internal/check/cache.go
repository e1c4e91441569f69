package check

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"kontra/internal/facet"
	"kontra/internal/platform/redis"
	"kontra/pkg/domain"
)

// CompanyCache keeps recently normalized companies so a document export does
// not spend a second provider call.
type CompanyCache interface {
	Get(ctx context.Context, taxID domain.TaxID) (facet.Company, bool, error)
	Set(ctx context.Context, taxID domain.TaxID, company facet.Company) error
}

// RedisCache stores normalized companies as JSON under a bounded TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(taxID domain.TaxID) string {
	return "check:company:" + string(taxID)
}

func (c *RedisCache) Get(ctx context.Context, taxID domain.TaxID) (facet.Company, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(taxID)).Bytes()
	if err == goredis.Nil {
		return facet.Company{}, false, nil
	}
	if err != nil {
		return facet.Company{}, false, fmt.Errorf("cache get: %w", err)
	}
	var company facet.Company
	if err := json.Unmarshal(raw, &company); err != nil {
		// A stale or corrupt entry counts as a miss.
		return facet.Company{}, false, nil
	}
	return company, true, nil
}

func (c *RedisCache) Set(ctx context.Context, taxID domain.TaxID, company facet.Company) error {
	payload, err := json.Marshal(company)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(taxID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// MemoryCache is the fallback when redis is not configured.
type MemoryCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	companies map[domain.TaxID]memoryEntry
}

type memoryEntry struct {
	company   facet.Company
	expiresAt time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:       ttl,
		now:       time.Now,
		companies: make(map[domain.TaxID]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, taxID domain.TaxID) (facet.Company, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.companies[taxID]
	if !ok || c.now().After(entry.expiresAt) {
		delete(c.companies, taxID)
		return facet.Company{}, false, nil
	}
	return entry.company, true, nil
}

func (c *MemoryCache) Set(_ context.Context, taxID domain.TaxID, company facet.Company) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.companies[taxID] = memoryEntry{company: company, expiresAt: c.now().Add(c.ttl)}
	return nil
}
