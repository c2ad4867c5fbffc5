package middleware

import (
	"github.com/gin-gonic/gin"

	"reviewhub/internal/permission"
	"reviewhub/pkg/response"
)

// Authorize evaluates a permission policy at the collection level.
// Handlers repeat the check with the targeted resource attached once
// they have loaded it.
func Authorize(policy permission.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := permission.Request{
			Actor:  response.GetUser(c),
			Method: c.Request.Method,
		}
		if err := permission.Check(policy, req); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
