package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	"go.uber.org/zap"
)

const (
	keySendOrg = "invoice:send:org:%s"

	minSendLockTTL = time.Minute
	// smtpBudget covers dialing and writing one message with attachment.
	smtpBudget = 30 * time.Second
)

// SendLimiter throttles outbound invoice delivery per organization and
// serializes concurrent sends of the same invoice. A nil or disabled limiter
// allows everything.
type SendLimiter struct {
	bucket  *TokenBucket
	locker  *Locker
	rate    float64
	burst   int
	lockTTL time.Duration
	log     *zap.Logger
}

// NewRedisClient returns nil when no Redis address is configured.
func NewRedisClient(cfg config.Config) *redis.Client {
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})
}

func NewSendLimiter(client *redis.Client, cfg config.Config, log *zap.Logger) (*SendLimiter, error) {
	log = log.Named("ratelimit")
	if client == nil {
		log.Info("send rate limiting disabled: no redis address configured")
		return nil, nil
	}
	if cfg.SendRate.Rate <= 0 || cfg.SendRate.Burst <= 0 {
		return nil, fmt.Errorf("send rate limit must be positive: rate=%v burst=%d", cfg.SendRate.Rate, cfg.SendRate.Burst)
	}
	return &SendLimiter{
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    cfg.SendRate.Rate,
		burst:   cfg.SendRate.Burst,
		lockTTL: sendLockTTL(cfg.PDF),
		log:     log,
	}, nil
}

func (l *SendLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *SendLimiter) AllowSend(ctx context.Context, orgID string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySendOrg, strings.TrimSpace(orgID)), l.rate, l.burst)
}

// sendLockTTL outlasts one PDF render plus one SMTP exchange.
func sendLockTTL(cfg config.PDFConfig) time.Duration {
	ttl := time.Duration(cfg.TimeoutSeconds)*time.Second + smtpBudget
	if ttl < minSendLockTTL {
		return minSendLockTTL
	}
	return ttl
}

// LockInvoice returns ok=false when another send of the same invoice holds
// the lock.
func (l *SendLimiter) LockInvoice(ctx context.Context, orgID, invoiceID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, InvoiceLockKey(orgID, invoiceID), l.lockTTL)
}

// KeepInvoiceLock extends a held lock every third of its TTL until stop is
// called, so a slow delivery never outlives its lock.
func (l *SendLimiter) KeepInvoiceLock(ctx context.Context, orgID, invoiceID, token string) (stop func()) {
	if !l.Enabled() || token == "" {
		return func() {}
	}
	key := InvoiceLockKey(orgID, invoiceID)
	return keepAlive(ctx, l.lockTTL/3, func(ctx context.Context) (bool, error) {
		return l.locker.Extend(ctx, key, token, l.lockTTL)
	}, l.log.With(zap.String("lock_key", key)))
}

func (l *SendLimiter) ReleaseInvoice(ctx context.Context, orgID, invoiceID, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, InvoiceLockKey(orgID, invoiceID), token)
}

// keepAlive calls extend on every tick until stop is called, ctx is done, or
// the lock is lost.
func keepAlive(ctx context.Context, interval time.Duration, extend func(context.Context) (bool, error), log *zap.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ok, err := extend(ctx)
				if err != nil {
					log.Warn("failed to extend send lock", zap.Error(err))
					continue
				}
				if !ok {
					log.Warn("send lock lost before delivery finished")
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
