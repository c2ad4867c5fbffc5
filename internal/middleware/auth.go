package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/repository"
	"reviewhub/internal/service"
	"reviewhub/pkg/apperror"
	"reviewhub/pkg/response"
)

type AuthMiddleware struct {
	tokens service.TokenService
	users  repository.UserRepository
}

func NewAuthMiddleware(tokens service.TokenService, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func (m *AuthMiddleware) authenticate(c *gin.Context) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return apperror.ErrUnauthorized
	}

	userID, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil {
		return err
	}

	user, err := m.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		return apperror.ErrUnauthorized
	}

	response.SetUser(c, user)
	return nil
}

// RequireAuth rejects anonymous requests.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if response.GetUser(c) != nil {
			c.Next()
			return
		}
		if err := m.authenticate(c); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through so read-only access can
// be decided per resource; a credential that is present but bad still
// fails.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			c.Next()
			return
		}
		if err := m.authenticate(c); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
