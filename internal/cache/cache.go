package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

// CacheService wraps storage with Redis caching
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
}

var _ storage.Storage = (*CacheService)(nil)

// NewCacheService creates a new cache service
func NewCacheService(storage storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		storage: storage,
		redis:   redisClient,
	}
}

// Cache key patterns
const (
	KeyPrefix       = "media:"
	MediaListKey    = "media:list:%s:%d:%s" // media:list:parentType:parentID:kind
	MediaSummaryKey = "media:summary:%s:%d" // media:summary:parentType:parentID
	MediaGenKey     = "media:gen:%s:%d"     // media:gen:parentType:parentID
)

// Cache durations
const (
	ListCacheDuration    = 60 * time.Second
	SummaryCacheDuration = 2 * time.Minute
)

func listKey(parentType string, parentID int64, kind media.Kind) string {
	return fmt.Sprintf(MediaListKey, parentType, parentID, kind)
}

func summaryKey(parentType string, parentID int64) string {
	return fmt.Sprintf(MediaSummaryKey, parentType, parentID)
}

func genKey(parentType string, parentID int64) string {
	return fmt.Sprintf(MediaGenKey, parentType, parentID)
}

// entry is a cached value stamped with the parent's generation at read time.
// An entry from an older generation is a miss, so a read that raced with an
// invalidation cannot put stale data back.
type entry[T any] struct {
	Gen  int64 `json:"gen"`
	Data T     `json:"data"`
}

// generation returns the parent's current generation. ok is false when Redis
// cannot answer and the cache should be skipped.
func (c *CacheService) generation(ctx context.Context, parentType string, parentID int64) (int64, bool) {
	gen, err := c.redis.Get(ctx, genKey(parentType, parentID)).Int64()
	switch {
	case err == redis.Nil:
		return 0, true
	case err != nil:
		slog.Warn("cache generation read failed",
			slog.String("parent_type", parentType),
			slog.Int64("parent_id", parentID),
			slog.String("error", err.Error()))
		return 0, false
	}
	return gen, true
}

// getJSON reads key into dst. A miss or an undecodable value reports false.
func (c *CacheService) getJSON(ctx context.Context, key string, dst any) bool {
	cached, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func (c *CacheService) setJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// InvalidateParent bumps the parent's generation and clears the cached list
// and summary of one collection.
func (c *CacheService) InvalidateParent(ctx context.Context, parentType string, parentID int64, kind media.Kind) {
	pipe := c.redis.TxPipeline()
	pipe.Incr(ctx, genKey(parentType, parentID))
	pipe.Del(ctx, listKey(parentType, parentID, kind), summaryKey(parentType, parentID))
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("cache invalidation failed",
			slog.String("parent_type", parentType),
			slog.Int64("parent_id", parentID),
			slog.String("error", err.Error()))
	}
}

// ListMediaAssets returns the cached listing or fetches it from the DB.
// URLs are never cached; callers fill them after the fetch.
func (c *CacheService) ListMediaAssets(ctx context.Context, parentType string, parentID int64, kind media.Kind) ([]media.MediaAsset, error) {
	gen, ok := c.generation(ctx, parentType, parentID)
	if !ok {
		return c.storage.ListMediaAssets(ctx, parentType, parentID, kind)
	}
	key := listKey(parentType, parentID, kind)

	var cached entry[[]media.MediaAsset]
	if c.getJSON(ctx, key, &cached) && cached.Gen == gen {
		return cached.Data, nil
	}

	assets, err := c.storage.ListMediaAssets(ctx, parentType, parentID, kind)
	if err != nil {
		return nil, err
	}

	c.setJSON(ctx, key, entry[[]media.MediaAsset]{Gen: gen, Data: assets}, ListCacheDuration)

	return assets, nil
}

// MediaSummary returns the cached summary or fetches it from the DB.
func (c *CacheService) MediaSummary(ctx context.Context, parentType string, parentID int64) (media.Summary, error) {
	gen, ok := c.generation(ctx, parentType, parentID)
	if !ok {
		return c.storage.MediaSummary(ctx, parentType, parentID)
	}
	key := summaryKey(parentType, parentID)

	var cached entry[media.Summary]
	if c.getJSON(ctx, key, &cached) && cached.Gen == gen {
		return cached.Data, nil
	}

	summary, err := c.storage.MediaSummary(ctx, parentType, parentID)
	if err != nil {
		return summary, err
	}

	c.setJSON(ctx, key, entry[media.Summary]{Gen: gen, Data: summary}, SummaryCacheDuration)

	return summary, nil
}

func (c *CacheService) CreateMediaAssets(ctx context.Context, assets []media.MediaAsset) ([]media.MediaAsset, error) {
	created, err := c.storage.CreateMediaAssets(ctx, assets)
	if err != nil {
		return nil, err
	}

	type collection struct {
		parentType string
		parentID   int64
		kind       media.Kind
	}
	seen := make(map[collection]bool)
	for _, a := range created {
		col := collection{a.ParentType, a.ParentID, a.Kind}
		if !seen[col] {
			seen[col] = true
			c.InvalidateParent(ctx, a.ParentType, a.ParentID, a.Kind)
		}
	}

	return created, nil
}

func (c *CacheService) DeleteMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) error {
	if err := c.storage.DeleteMediaAsset(ctx, parentType, parentID, kind, id); err != nil {
		return err
	}
	c.InvalidateParent(ctx, parentType, parentID, kind)
	return nil
}

func (c *CacheService) UpdateMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64, upd media.AssetUpdate) error {
	if err := c.storage.UpdateMediaAsset(ctx, parentType, parentID, kind, id, upd); err != nil {
		return err
	}
	c.InvalidateParent(ctx, parentType, parentID, kind)
	return nil
}

// Methods to pass through to storage (implement storage.Storage interface)
func (c *CacheService) ParentExists(ctx context.Context, parent media.ParentType, parentID int64) (bool, error) {
	return c.storage.ParentExists(ctx, parent, parentID)
}

func (c *CacheService) GetMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) (media.MediaAsset, error) {
	return c.storage.GetMediaAsset(ctx, parentType, parentID, kind, id)
}

func (c *CacheService) MediaFileReferenced(ctx context.Context, filePath string) (bool, error) {
	return c.storage.MediaFileReferenced(ctx, filePath)
}

func (c *CacheService) CreateUser(ctx context.Context, email, password string) (string, error) {
	return c.storage.CreateUser(ctx, email, password)
}

func (c *CacheService) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	return c.storage.GetUserByEmail(ctx, email)
}
