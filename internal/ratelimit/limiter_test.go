package ratelimit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRedisClientWithoutAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient(config.Config{}))
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	limiter, err := NewSendLimiter(nil, config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, limiter)

	res, err := limiter.AllowSend(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	token, ok, err := limiter.LockInvoice(context.Background(), "42", "7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, token)
	assert.NoError(t, limiter.ReleaseInvoice(context.Background(), "42", "7", token))
}

func TestNewSendLimiterRejectsInvalidRate(t *testing.T) {
	client := NewRedisClient(config.Config{Redis: config.RedisConfig{Addr: "127.0.0.1:0"}})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewSendLimiter(client, config.Config{SendRate: config.RateConfig{Rate: 0, Burst: 1}}, zap.NewNop())
	assert.Error(t, err)
}

func TestTokenBucketRejectsBadArguments(t *testing.T) {
	var bucket *TokenBucket
	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}

func TestRetryAfter(t *testing.T) {
	assert.Zero(t, retryAfter(true, 0, 1))
	assert.Equal(t, 2*time.Second, retryAfter(false, 0, 0.5))
	assert.Equal(t, 500*time.Millisecond, retryAfter(false, 0.5, 1))
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 10*time.Second, defaultBucketTTL(1, 5))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 0))
}

func TestInvoiceLockKey(t *testing.T) {
	assert.Equal(t, "invoice:send:lock:42:7", InvoiceLockKey(" 42 ", "7"))
}

func TestSendLockTTLCoversPDFTimeout(t *testing.T) {
	assert.Equal(t, time.Minute, sendLockTTL(config.PDFConfig{TimeoutSeconds: 10}))
	assert.Equal(t, time.Minute, sendLockTTL(config.PDFConfig{TimeoutSeconds: 30}))
	assert.Equal(t, 150*time.Second, sendLockTTL(config.PDFConfig{TimeoutSeconds: 120}))
}

func TestNilLockerIsNotConfigured(t *testing.T) {
	var locker *Locker
	_, _, err := locker.TryLock(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, ErrLockNotConfigured)

	_, err = locker.Extend(context.Background(), "k", "token", time.Second)
	assert.ErrorIs(t, err, ErrLockNotConfigured)

	assert.NoError(t, locker.Release(context.Background(), "k", "token"))
}

func TestKeepInvoiceLockOnNilLimiter(t *testing.T) {
	var limiter *SendLimiter
	stop := limiter.KeepInvoiceLock(context.Background(), "42", "7", "token")
	require.NotNil(t, stop)
	stop()
}

func TestKeepAliveExtendsUntilStopped(t *testing.T) {
	var calls atomic.Int32
	stop := keepAlive(context.Background(), 5*time.Millisecond, func(context.Context) (bool, error) {
		calls.Add(1)
		return true, nil
	}, zap.NewNop())

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestKeepAliveStopsWhenLockIsLost(t *testing.T) {
	var calls atomic.Int32
	stop := keepAlive(context.Background(), 5*time.Millisecond, func(context.Context) (bool, error) {
		calls.Add(1)
		return false, nil
	}, zap.NewNop())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	stop()
}
