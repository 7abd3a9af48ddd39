package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client with short timeouts so a slow Redis
// cannot stall a sweep.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		PoolSize:     10,
	})
}

func leaseKey(id uuid.UUID) string { return "workstatus:lease:" + id.String() }

// Redis shares the lease set between instances with SET NX PX.
type Redis struct {
	client   *redis.Client
	inFlight time.Duration
}

func NewRedis(client *redis.Client, inFlight time.Duration) *Redis {
	if inFlight <= 0 {
		inFlight = DefaultInFlightTTL
	}
	return &Redis{client: client, inFlight: inFlight}
}

func (r *Redis) Acquire(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := r.client.SetNX(ctx, leaseKey(id), "1", r.inFlight).Result()
	if err != nil {
		return false, fmt.Errorf("redis acquire lease %s: %w", id, err)
	}
	return ok, nil
}

func (r *Redis) Release(ctx context.Context, id uuid.UUID, after time.Duration) error {
	if after <= 0 {
		if err := r.client.Del(ctx, leaseKey(id)).Err(); err != nil {
			return fmt.Errorf("redis drop lease %s: %w", id, err)
		}
		return nil
	}
	if err := r.client.PExpire(ctx, leaseKey(id), after).Err(); err != nil {
		return fmt.Errorf("redis extend lease %s: %w", id, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
