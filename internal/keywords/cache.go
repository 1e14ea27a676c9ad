package keywords

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"resumatch/internal/config"
	"resumatch/internal/logging"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"
)

// Cache memoizes keyword models per job posting. The key combines the
// posting id with a content hash so an edited description is rebuilt rather
// than served stale. Entries are written at most once per key; concurrent
// builders are collapsed through singleflight and would compute the same
// deterministic value anyway, so a lost race is harmless.
//
// When Redis is enabled it acts as a cross-process read-through layer; any
// Redis failure degrades to a local build.
type Cache struct {
	builder *Builder
	local   sync.Map // cache key -> *Model
	group   singleflight.Group
	redis   *utils.RedisClient // nil when disabled
	timeout time.Duration
	logger  logging.Logger
}

// NewCache creates a keyword model cache. redisClient may be nil.
func NewCache(cfg *config.Config, redisClient *utils.RedisClient) *Cache {
	return &Cache{
		builder: NewBuilder(cfg),
		redis:   redisClient,
		timeout: cfg.Redis.Timeout,
		logger:  logging.GetGlobalLogger(),
	}
}

// Get returns the keyword model for the posting, building it on first use.
// It never fails: cache layers degrade to a direct build.
func (c *Cache) Get(ctx context.Context, posting models.JobPosting) *Model {
	contentHash := utils.ContentHash(posting.Title + "\n" + posting.Description)
	key := posting.ID + ":" + contentHash

	if cached, ok := c.local.Load(key); ok {
		return cached.(*Model)
	}

	result, _, _ := c.group.Do(key, func() (interface{}, error) {
		if cached, ok := c.local.Load(key); ok {
			return cached.(*Model), nil
		}

		if model := c.fromRedis(ctx, posting.ID, contentHash); model != nil {
			c.local.LoadOrStore(key, model)
			return model, nil
		}

		model := c.builder.Build(posting)
		c.local.LoadOrStore(key, model)
		c.toRedis(ctx, posting.ID, contentHash, model)
		return model, nil
	})

	return result.(*Model)
}

func (c *Cache) fromRedis(ctx context.Context, jobID, contentHash string) *Model {
	if c.redis == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cached, err := c.redis.GetKeywordModel(ctx, jobID, contentHash)
	if err != nil {
		c.logger.Warn("Keyword model cache read failed, building locally", map[string]interface{}{
			"job_id": jobID,
			"error":  err.Error(),
		})
		return nil
	}
	if cached == nil {
		return nil
	}

	return &Model{Weights: cached.Weights, Display: cached.Display}
}

func (c *Cache) toRedis(ctx context.Context, jobID, contentHash string, model *Model) {
	if c.redis == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.redis.SetKeywordModel(ctx, &utils.CachedKeywordModel{
		JobID:       jobID,
		ContentHash: contentHash,
		Weights:     model.Weights,
		Display:     model.Display,
		CachedAt:    time.Now(),
	})
	if err != nil {
		c.logger.Warn("Keyword model cache write failed", map[string]interface{}{
			"job_id": jobID,
			"error":  err.Error(),
		})
	}
}
