package middleware

import (
	"net/http"

	"talent-pool-backend/internal/delivery/http/response"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/logger"
	"talent-pool-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// UploadLimit caps file uploads per authenticated user. Limiter errors let
// the request through.
func UploadLimit(limiter *security.UploadLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(string(domain.KeyUserID))
		allowed, err := limiter.Allow(c.Request.Context(), userID)
		if err != nil {
			logger.Log.Warn("upload limiter unavailable", "user_id", userID, "error", err)
		}
		if !allowed {
			security.DefaultLogger().LogUploadLimited(c.Request.Context(), userID, c.ClientIP(), c.GetString(response.RequestIDKey))
			response.Error(c, http.StatusTooManyRequests, "Upload limit reached. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// MultipartOverhead is the slack allowed above a file size limit for
// multipart boundaries and part headers.
const MultipartOverhead = 64 << 10

// MaxBody rejects request bodies larger than limit. Declared lengths are
// refused up front; undeclared ones are cut off while reading.
func MaxBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.Error(domain.ErrFileTooLarge)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
