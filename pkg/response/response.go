package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reviewhub/internal/entity"
	"reviewhub/pkg/apperror"
)

const userKey = "current_user"

// SetUser stores the authenticated user on the request context.
func SetUser(c *gin.Context, user *entity.User) {
	c.Set(userKey, user)
}

// GetUser retrieves the authenticated user, or nil for anonymous
// requests that passed through optional authentication.
func GetUser(c *gin.Context) *entity.User {
	val, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, ok := val.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

// RequireUser retrieves the authenticated user or fails with
// ErrUnauthorized.
func RequireUser(c *gin.Context) (*entity.User, error) {
	user := GetUser(c)
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}

// Error renders a standardized error response.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		logrus.WithError(err).Error("internal error")
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
