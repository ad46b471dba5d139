package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const keyInvoiceLock = "invoice:send:lock:%s:%s"

// Both scripts only act when the caller still owns the lock.
const (
	lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`
	lockExtendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`
)

var ErrLockNotConfigured = errors.New("lock client not configured")

// Locker hands out owner-tokened Redis locks for invoice delivery.
type Locker struct {
	client  *redis.Client
	release *redis.Script
	extend  *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client:  client,
		release: redis.NewScript(lockReleaseScript),
		extend:  redis.NewScript(lockExtendScript),
	}
}

// InvoiceLockKey scopes the lock to one invoice of one organization.
func InvoiceLockKey(orgID, invoiceID string) string {
	return fmt.Sprintf(keyInvoiceLock, strings.TrimSpace(orgID), strings.TrimSpace(invoiceID))
}

// TryLock returns ok=false when the key is already held.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if err := l.check(key, ttl); err != nil {
		return "", false, err
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Extend pushes the expiry of a held lock to ttl from now. It reports false
// when the lock expired or changed owner in the meantime.
func (l *Locker) Extend(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	if err := l.check(key, ttl); err != nil {
		return false, err
	}
	if token == "" {
		return false, errors.New("lock token is empty")
	}
	n, err := l.extend.Run(ctx, l.client, []string{key}, token, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if key == "" || token == "" {
		return nil
	}
	return l.release.Run(ctx, l.client, []string{key}, token).Err()
}

func (l *Locker) check(key string, ttl time.Duration) error {
	if l == nil || l.client == nil {
		return ErrLockNotConfigured
	}
	if key == "" {
		return errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return errors.New("lock ttl must be positive")
	}
	return nil
}
