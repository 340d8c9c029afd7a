package cache

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
)

// CacheStats represents cache performance statistics
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	CacheKeys      []string `json:"cache_keys_sample"`
	MediaKeyCount  int      `json:"media_keys"`
	KeyCount       int      `json:"total_keys"`
}

// scanKeys collects every key matching pattern without blocking the server like KEYS would.
func scanKeys(r *http.Request, redisClient *redis.Client, pattern string) ([]string, error) {
	var keys []string
	iter := redisClient.Scan(r.Context(), 0, pattern, 100).Iterator()
	for iter.Next(r.Context()) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

// GetCacheStats returns cache performance statistics
// @Summary      Cache statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/admin/cache/stats [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := CacheStats{RedisConnected: true}

		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		keys, err := scanKeys(r, redisClient, KeyPrefix+"*")
		if err == nil {
			stats.MediaKeyCount = len(keys)
			stats.CacheKeys = keys[:min(len(keys), 10)]
		}

		if dbSize := redisClient.DBSize(r.Context()); dbSize.Err() == nil {
			stats.KeyCount = int(dbSize.Val())
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// ClearCache endpoint for administrative purposes
// @Summary      Clear cached media listings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "list, summary or all"
// @Success      200   {object}  response.Response
// @Router       /api/admin/cache [delete]
func ClearCache(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pattern string
		switch r.URL.Query().Get("type") {
		case "list":
			pattern = "media:list:*"
		case "summary":
			pattern = "media:summary:*"
		default:
			pattern = KeyPrefix + "*"
		}

		keys, err := scanKeys(r, redisClient, pattern)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		if len(keys) == 0 {
			result := map[string]interface{}{
				"pattern":      pattern,
				"deleted_keys": 0,
			}
			response.WriteJSON(w, http.StatusOK, response.RequestOK("No cache keys to clear", result))
			return
		}

		deleted := redisClient.Del(r.Context(), keys...)
		if deleted.Err() != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(deleted.Err()))
			return
		}

		result := map[string]interface{}{
			"pattern":      pattern,
			"deleted_keys": deleted.Val(),
			"keys_sample":  keys[:min(len(keys), 5)],
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache cleared successfully", result))
	}
}
