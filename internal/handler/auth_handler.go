package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/service"
	"reviewhub/pkg/response"
	"reviewhub/pkg/validator"
)

type AuthHandler struct {
	tokens service.TokenService
}

func NewAuthHandler(tokens service.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// SendCode mails a confirmation code to the given address. The reply
// never says whether delivery worked.
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req dto.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.tokens.SendConfirmationCode(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": req.Email})
}

// Token exchanges a confirmation code for an access token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	token, err := h.tokens.Exchange(c.Request.Context(), req.Email, req.ConfirmationCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
