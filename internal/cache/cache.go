// Package cache provides a caching decorator for analysis strategies. Two
// tiers mirror the usual hot/warm split: an in-process expirable LRU and an
// optional Redis client for sharing results across instances. Only
// successful results are cached; fail-safe error results always fall
// through so a transient failure is not pinned for the TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
)

// keyPrefix namespaces triage cache entries in a shared Redis instance.
const keyPrefix = "triage:result:"

// AnalyzerCache decorates an Analyzer with result caching. Because the
// rule-based strategy is deterministic apart from citation sampling, a
// cache hit returns a byte-identical result, sources included.
type AnalyzerCache struct {
	inner  domain.Analyzer
	memory *expirable.LRU[string, *domain.AnalysisResult]
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// New creates a caching decorator around inner. redisClient may be nil, in
// which case only the in-memory tier is used.
func New(inner domain.Analyzer, maxItems int, ttl time.Duration, redisClient *redis.Client, logger *logrus.Logger) *AnalyzerCache {
	if maxItems <= 0 {
		maxItems = 1000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AnalyzerCache{
		inner:  inner,
		memory: expirable.NewLRU[string, *domain.AnalysisResult](maxItems, nil, ttl),
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient connects to Redis from a URL and verifies the connection.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// Analyze returns a cached result when one exists, otherwise delegates to
// the wrapped strategy and stores its result.
func (c *AnalyzerCache) Analyze(ctx context.Context, req *domain.AnalysisRequest) *domain.AnalysisResult {
	if req == nil {
		return c.inner.Analyze(ctx, req)
	}

	key := requestKey(req)

	if result, ok := c.memory.Get(key); ok {
		c.logger.WithField("tier", "memory").Debug("Analysis cache hit")
		return result
	}

	if result := c.redisGet(ctx, key); result != nil {
		c.memory.Add(key, result)
		c.logger.WithField("tier", "redis").Debug("Analysis cache hit")
		return result
	}

	result := c.inner.Analyze(ctx, req)
	if result != nil && !result.Error {
		c.memory.Add(key, result)
		c.redisSet(ctx, key, result)
	}
	return result
}

func (c *AnalyzerCache) redisGet(ctx context.Context, key string) *domain.AnalysisResult {
	if c.redis == nil {
		return nil
	}

	payload, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.logger.WithError(err).Warn("Redis cache read failed")
		return nil
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// Corrupted entry; drop it rather than serving garbage.
		c.redis.Del(ctx, key)
		return nil
	}
	return &result
}

func (c *AnalyzerCache) redisSet(ctx context.Context, key string, result *domain.AnalysisResult) {
	if c.redis == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Redis cache write failed")
	}
}

// requestKey canonicalizes the request into a stable cache key. Symptom
// order must not matter, so the set is sorted before hashing.
func requestKey(req *domain.AnalysisRequest) string {
	symptoms := append([]string(nil), req.Symptoms...)
	sort.Strings(symptoms)

	h := sha256.New()
	h.Write([]byte(strings.Join(symptoms, "\x1f")))
	payload, _ := json.Marshal(struct {
		Age            int             `json:"age"`
		Gender         string          `json:"gender"`
		Duration       domain.Duration `json:"duration"`
		Severity       domain.Severity `json:"severity"`
		AdditionalInfo string          `json:"additional_info"`
	}{req.Age, req.Gender, req.Duration, req.Severity, req.AdditionalInfo})
	h.Write(payload)

	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
