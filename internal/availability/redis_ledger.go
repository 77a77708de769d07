package availability

import (
	"context"
	"fmt"
	"time"

	"tably/internal/shared/faults"

	"github.com/redis/go-redis/v9"
)

// RedisLedger is the multi-process ledger variant. SETNX gives the
// same exactly-one-winner guarantee as the in-memory compare-and-set.
type RedisLedger struct {
	client *redis.Client
	keyTTL time.Duration
}

// NewRedisLedger creates a Redis-backed ledger. keyTTL bounds the life
// of orphaned keys from dead processes; it is not an automatic hold
// release.
func NewRedisLedger(client *redis.Client, keyTTL time.Duration) *RedisLedger {
	return &RedisLedger{client: client, keyTTL: keyTTL}
}

func ledgerKey(key Key) string {
	return "occupancy:" + key.String()
}

func (l *RedisLedger) IsFree(ctx context.Context, key Key) (bool, error) {
	exists, err := l.client.Exists(ctx, ledgerKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: ledger read: %v", faults.ErrServiceUnavailable, err)
	}
	return exists == 0, nil
}

func (l *RedisLedger) Hold(ctx context.Context, key Key, referenceID string) error {
	ok, err := l.client.SetNX(ctx, ledgerKey(key), referenceID, l.keyTTL).Result()
	if err != nil {
		return fmt.Errorf("%w: ledger write: %v", faults.ErrServiceUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("%w: key %s", faults.ErrHoldConflict, key)
	}
	return nil
}

func (l *RedisLedger) Release(ctx context.Context, key Key) error {
	if err := l.client.Del(ctx, ledgerKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: ledger delete: %v", faults.ErrServiceUnavailable, err)
	}
	return nil
}
