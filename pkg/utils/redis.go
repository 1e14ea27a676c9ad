package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resumatch/internal/config"
)

// RedisClient wraps the Redis client used as an optional cross-process cache
// for job keyword models. The service works fully without it; callers must
// treat any error as a cache miss.
type RedisClient struct {
	client *redis.Client
	config *config.Config
}

// CachedKeywordModel is the stored representation of a computed keyword model
type CachedKeywordModel struct {
	JobID       string             `json:"job_id"`
	ContentHash string             `json:"content_hash"`
	Weights     map[string]float64 `json:"weights"`
	Display     map[string]string  `json:"display"`
	CachedAt    time.Time          `json:"cached_at"`
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) *RedisClient {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &RedisClient{
		client: redis.NewClient(opts),
		config: cfg,
	}
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// GetKeywordModel fetches a cached keyword model. A stale entry (content hash
// mismatch) is treated as a miss so edited postings are never served old
// weights.
func (r *RedisClient) GetKeywordModel(ctx context.Context, jobID, contentHash string) (*CachedKeywordModel, error) {
	key := r.keywordModelKey(jobID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword model: %w", err)
	}

	var cached CachedKeywordModel
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keyword model: %w", err)
	}

	if cached.ContentHash != contentHash {
		return nil, nil
	}

	return &cached, nil
}

// SetKeywordModel stores a computed keyword model with a TTL. First writer
// wins; concurrent writers compute the same deterministic value so losing the
// race is harmless.
func (r *RedisClient) SetKeywordModel(ctx context.Context, cached *CachedKeywordModel) error {
	key := r.keywordModelKey(cached.JobID)

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal keyword model: %w", err)
	}

	ok, err := r.client.SetNX(ctx, key, data, r.config.Redis.KeywordModelTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to store keyword model: %w", err)
	}
	if !ok {
		// An entry already exists; refresh it only if the content changed.
		existing, err := r.GetKeywordModel(ctx, cached.JobID, cached.ContentHash)
		if err != nil || existing != nil {
			return err
		}
		return r.client.Set(ctx, key, data, r.config.Redis.KeywordModelTTL).Err()
	}

	return nil
}

func (r *RedisClient) keywordModelKey(jobID string) string {
	return "resumatch:keyword_model:" + jobID
}
