package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
)

const keyPrefix = "agenda:availability:"

// RedisAvailabilityCache keys every entry by the professional's current
// version. Invalidate bumps the version, which orphans older entries until
// their TTL expires.
type RedisAvailabilityCache struct {
	client *redis.Client
}

func NewRedisAvailabilityCache(client *redis.Client) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client}
}

func versionKey(professionalID uuid.UUID) string {
	return fmt.Sprintf("%sver:%s", keyPrefix, professionalID)
}

func slotsKey(key domain.CacheKey, version int64) string {
	return fmt.Sprintf("%s%s:%s:%s:%s:v%d",
		keyPrefix, key.TenantID, key.ProfessionalID, key.ServiceID, key.Date, version)
}

func (c *RedisAvailabilityCache) version(ctx context.Context, professionalID uuid.UUID) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(professionalID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, key domain.CacheKey) ([]domain.Slot, int64, bool, error) {
	v, err := c.version(ctx, key.ProfessionalID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, slotsKey(key, v)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, v, false, nil
	}
	if err != nil {
		return nil, v, false, err
	}

	var slots []domain.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		// corrupt entry: treat as a miss, it will be overwritten
		return nil, v, false, nil
	}
	return slots, v, true, nil
}

// Set stores slots under the version returned by the Get that missed.
func (c *RedisAvailabilityCache) Set(ctx context.Context, key domain.CacheKey, version int64, slots []domain.Slot, ttl time.Duration) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, slotsKey(key, version), data, ttl).Err()
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, professionalID uuid.UUID) error {
	return c.client.Incr(ctx, versionKey(professionalID)).Err()
}

var _ domain.AvailabilityCache = (*RedisAvailabilityCache)(nil)
