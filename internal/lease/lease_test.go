package lease_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedreamteamconsultancy/workstatus/internal/lease"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemory_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	l := lease.NewMemory(time.Minute, clock.Now)
	id := uuid.New()

	ok, err := l.Acquire(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.Acquire(ctx, id)
	assert.False(t, ok, "held while in flight")

	require.NoError(t, l.Release(ctx, id, 5*time.Second))
	clock.Advance(4 * time.Second)
	ok, _ = l.Acquire(ctx, id)
	assert.False(t, ok, "still inside cooldown")

	clock.Advance(2 * time.Second)
	ok, _ = l.Acquire(ctx, id)
	assert.True(t, ok, "cooldown elapsed")
}

func TestMemory_ReleaseWithoutCooldown(t *testing.T) {
	ctx := context.Background()
	l := lease.NewMemory(time.Minute, nil)
	id := uuid.New()

	_, _ = l.Acquire(ctx, id)
	require.NoError(t, l.Release(ctx, id, 0))

	ok, _ := l.Acquire(ctx, id)
	assert.True(t, ok)
}

func TestMemory_InFlightExpires(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	l := lease.NewMemory(10*time.Second, clock.Now)
	id := uuid.New()

	_, _ = l.Acquire(ctx, id)
	clock.Advance(11 * time.Second)

	ok, _ := l.Acquire(ctx, id)
	assert.True(t, ok)
}

func TestMemory_Prune(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	l := lease.NewMemory(time.Minute, clock.Now)

	for i := 0; i < 3; i++ {
		_, _ = l.Acquire(ctx, uuid.New())
	}
	kept := uuid.New()
	_, _ = l.Acquire(ctx, kept)
	_ = l.Release(ctx, kept, 2*time.Minute)

	clock.Advance(90 * time.Second)
	assert.Equal(t, 3, l.Prune())
	assert.Equal(t, 1, l.Len())
}

func TestMemory_ConcurrentAcquire(t *testing.T) {
	ctx := context.Background()
	l := lease.NewMemory(time.Minute, nil)
	id := uuid.New()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Acquire(ctx, id); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
