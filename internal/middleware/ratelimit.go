package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"reviewhub/internal/entity"
	"reviewhub/internal/service"
	"reviewhub/pkg/apperror"
	"reviewhub/pkg/response"
)

// ExemptFunc decides which authenticated users bypass throttling.
type ExemptFunc func(user *entity.User) bool

// EmployeesExempt is the default exemption: moderators and admins are
// never throttled.
func EmployeesExempt(user *entity.User) bool {
	return user != nil && user.Role.IsEmployee()
}

// RateLimit throttles per identity within a scope: authenticated users
// are keyed by ID, anonymous callers by client IP. Redis outages fail
// open.
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration, exempt ExemptFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := response.GetUser(c)
		if exempt != nil && exempt(user) {
			c.Next()
			return
		}

		ident := c.ClientIP()
		if user != nil {
			ident = user.ID.String()
		}

		allowed, err := service.CheckRateLimit(c.Request.Context(), rdb, scope, ident, limit, window)
		if err != nil {
			logrus.WithError(err).Warn("rate limit check failed, allowing request")
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, apperror.ErrRateLimitExceeded)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimitWrites throttles only mutating requests; safe methods pass
// untouched.
func RateLimitWrites(rdb *redis.Client, scope string, limit int, window time.Duration, exempt ExemptFunc) gin.HandlerFunc {
	limiter := RateLimit(rdb, scope, limit, window, exempt)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
			return
		}
		limiter(c)
	}
}
