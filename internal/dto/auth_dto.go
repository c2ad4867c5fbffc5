package dto

type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type TokenRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
