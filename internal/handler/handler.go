package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/pkg/apperror"
)

// uintParam parses a numeric path parameter; a malformed ID behaves
// like a missing resource.
func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperror.ErrNotFound
	}
	return uint(v), nil
}
