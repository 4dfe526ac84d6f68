package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"
	IdempotencyTTL      = 24 * time.Hour
	idempotencyLockTTL  = 30 * time.Second

	CodeRequestInFlight = "PROCESSING"
)

type idempotentResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the cached response for a repeated Idempotency-Key and
// rejects concurrent duplicates. The handler stores the response and releases
// the lock, see StoreIdempotentResponse.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id_validated")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached idempotentResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replay", "true")
				c.AbortWithStatusJSON(cached.Status, gin.H{"ok": true, "data": cached.Data})
				return
			}
		}

		// Short lock so a crashed request cannot block the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, errorEnvelope(
				CodeRequestInFlight,
				"A request with this Idempotency-Key is still being processed",
				nil,
			))
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)

		c.Next()
	}
}

// StoreIdempotentResponse caches the successful response under the request's
// idempotency key (when there is one) and always releases the lock. Pass nil
// data on failure so the client can retry with the same key.
func StoreIdempotentResponse(c *gin.Context, rdb *redis.Client, status int, data any) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lockKey := c.GetString(IdempotencyLockKey); lockKey != "" {
		defer rdb.Del(ctx, lockKey)
	}
	cacheKey := c.GetString(IdempotencyCacheKey)
	if cacheKey == "" || data == nil {
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		return
	}
	if raw, err := json.Marshal(idempotentResponse{Status: status, Data: body}); err == nil {
		rdb.Set(ctx, cacheKey, raw, IdempotencyTTL)
	}
}

func errorEnvelope(code, message string, details any) gin.H {
	return gin.H{
		"ok": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	}
}
