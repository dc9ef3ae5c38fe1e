package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
)

func TestStatusKey(t *testing.T) {
	assert.Equal(t, "fieldops:time-status:u-1", statusKey("u-1"))
	assert.Equal(t, "fieldops:time-status-gen:u-1", generationKey("u-1"))
}

func TestStatusCache_UnreachableRedisReturnsErrors(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := NewStatusCache(rdb, time.Second)
	ctx := context.Background()

	st, err := c.Get(ctx, "u-1")
	assert.Error(t, err)
	assert.Nil(t, st)
	_, err = c.Generation(ctx, "u-1")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, &dto.TimeStatusResponse{UserID: "u-1"}, 0))
	assert.Error(t, c.Invalidate(ctx, "u-1"))
}

// Requiere un Redis real: REDIS_TEST_ADDR=localhost:6379.
func TestStatusCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR no definido")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	defer rdb.Close()
	c := NewStatusCache(rdb, 5*time.Second)
	ctx := context.Background()
	userID := "test-" + time.Now().Format("150405.000000")

	miss, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	wo := "wo-1"
	in := &dto.TimeStatusResponse{UserID: userID, IsClockedIn: true, Activity: "on-work-order", WorkOrderID: &wo}
	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, gen)
	require.NoError(t, c.Set(ctx, in, gen))

	got, err := c.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsClockedIn)
	assert.Equal(t, "on-work-order", got.Activity)
	require.NotNil(t, got.WorkOrderID)
	assert.Equal(t, wo, *got.WorkOrderID)

	require.NoError(t, c.Invalidate(ctx, userID))
	miss, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	// Una instantánea leída antes de la invalidación no se guarda.
	require.NoError(t, c.Set(ctx, in, gen))
	miss, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	gen, err = c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	require.NoError(t, c.Set(ctx, in, gen))
	got, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	t.Cleanup(func() { rdb.Del(context.Background(), statusKey(userID), generationKey(userID)) })
}
