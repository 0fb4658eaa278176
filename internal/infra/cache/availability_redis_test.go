package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
)

func newTestCache(t *testing.T) (*RedisAvailabilityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAvailabilityCache(client), mr
}

func sampleSlots() []domain.Slot {
	start := time.Date(2031, 3, 10, 8, 0, 0, 0, time.UTC)
	return []domain.Slot{
		{StartTime: start, EndTime: start.Add(30 * time.Minute), Available: true},
		{StartTime: start.Add(30 * time.Minute), EndTime: start.Add(time.Hour), Available: false},
	}
}

func TestAvailabilityCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := domain.CacheKey{TenantID: uuid.New(), ProfessionalID: uuid.New(), ServiceID: uuid.New(), Date: "2031-03-10"}

	_, v, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)

	require.NoError(t, c.Set(ctx, key, v, sampleSlots(), time.Minute))

	got, _, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.True(t, got[0].StartTime.Equal(sampleSlots()[0].StartTime))
	assert.False(t, got[1].Available)
}

func TestAvailabilityCacheLateWriteAfterInvalidateIsOrphaned(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := domain.CacheKey{TenantID: uuid.New(), ProfessionalID: uuid.New(), ServiceID: uuid.New(), Date: "2031-03-10"}

	_, v, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	// a booking commits while the list is still being computed
	require.NoError(t, c.Invalidate(ctx, key.ProfessionalID))

	stale := sampleSlots()
	stale[1].Available = true
	require.NoError(t, c.Set(ctx, key, v, stale, time.Minute))

	_, next, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "list computed before the invalidation must not be served")
	assert.Equal(t, v+1, next)
}

func TestAvailabilityCacheInvalidateIsPerProfessional(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	tenantID, svcID := uuid.New(), uuid.New()

	a := domain.CacheKey{TenantID: tenantID, ProfessionalID: uuid.New(), ServiceID: svcID, Date: "2031-03-10"}
	b := domain.CacheKey{TenantID: tenantID, ProfessionalID: uuid.New(), ServiceID: svcID, Date: "2031-03-10"}

	require.NoError(t, c.Set(ctx, a, 0, sampleSlots(), time.Minute))
	require.NoError(t, c.Set(ctx, b, 0, sampleSlots(), time.Minute))

	require.NoError(t, c.Invalidate(ctx, a.ProfessionalID))

	_, _, ok, err := c.Get(ctx, a)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, ok, err = c.Get(ctx, b)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAvailabilityCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := domain.CacheKey{TenantID: uuid.New(), ProfessionalID: uuid.New(), ServiceID: uuid.New(), Date: "2031-03-10"}

	require.NoError(t, c.Set(ctx, key, 0, sampleSlots(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, _, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAvailabilityCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	key := domain.CacheKey{TenantID: uuid.New(), ProfessionalID: uuid.New(), ServiceID: uuid.New(), Date: "2031-03-10"}

	require.NoError(t, mr.Set(slotsKey(key, 0), "not-json"))

	_, _, ok, err := c.Get(context.Background(), key)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), &config.Config{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), &config.Config{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}
