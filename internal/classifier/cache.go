package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CachedClassifier memoizes successful classifications in Redis so identical
// re-submissions skip the external call. Cache failures fall through to the
// wrapped classifier.
type CachedClassifier struct {
	inner  PriorityClassifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps a classifier with a Redis result cache. A zero TTL
// or nil client disables caching.
func NewCachedClassifier(inner PriorityClassifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Classify checks the cache before delegating to the wrapped classifier.
func (c *CachedClassifier) Classify(ctx context.Context, title, description string) (domain.ComplaintPriority, error) {
	if c.client == nil || c.ttl <= 0 {
		return c.inner.Classify(ctx, title, description)
	}

	key := cacheKey(title, description)
	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		if priority, ok := NormalizePriority(cached); ok {
			return priority, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("classifier cache read failed", zap.Error(err))
	}

	priority, err := c.inner.Classify(ctx, title, description)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, string(priority), c.ttl).Err(); err != nil {
		c.logger.Warn("classifier cache write failed", zap.Error(err))
	}
	return priority, nil
}

func cacheKey(title, description string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + description))
	return "classifier:priority:" + hex.EncodeToString(sum[:])
}
