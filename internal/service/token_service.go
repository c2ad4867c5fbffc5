package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/mailer"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

const mailSubject = "Your confirmation code"

// emailClaims is the confirmation-code payload: the address it was
// issued for plus the signed expiry.
type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type TokenService interface {
	// IssueConfirmationCode signs a short-lived code binding an email.
	IssueConfirmationCode(email string) (string, error)
	// VerifyConfirmationCode returns the embedded email, or
	// ErrExpiredCredential / ErrInvalidCredential.
	VerifyConfirmationCode(code string) (string, error)
	// SendConfirmationCode issues a code and mails it. Delivery is fire
	// and forget; only code creation itself can fail.
	SendConfirmationCode(ctx context.Context, email string) error
	// Exchange trades a confirmation code for an access token, creating
	// the user on first exchange.
	Exchange(ctx context.Context, email, code string) (string, error)
	// ParseAccessToken validates a bearer token and returns the user ID.
	ParseAccessToken(token string) (uuid.UUID, error)
}

type tokenService struct {
	users    repository.UserRepository
	mail     mailer.Mailer
	secret   []byte
	codeTTL  time.Duration
	tokenTTL time.Duration
}

func NewTokenService(users repository.UserRepository, mail mailer.Mailer, secret string, codeTTL, tokenTTL time.Duration) TokenService {
	return &tokenService{
		users:    users,
		mail:     mail,
		secret:   []byte(secret),
		codeTTL:  codeTTL,
		tokenTTL: tokenTTL,
	}
}

func (s *tokenService) IssueConfirmationCode(email string) (string, error) {
	return s.issueCode(email, s.codeTTL)
}

func (s *tokenService) issueCode(email string, ttl time.Duration) (string, error) {
	claims := emailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) VerifyConfirmationCode(code string) (string, error) {
	var claims emailClaims
	token, err := jwt.ParseWithClaims(code, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.ErrExpiredCredential
		}
		return "", apperror.ErrInvalidCredential
	}
	if !token.Valid || claims.Email == "" {
		return "", apperror.ErrInvalidCredential
	}
	return claims.Email, nil
}

func (s *tokenService) SendConfirmationCode(ctx context.Context, email string) error {
	code, err := s.IssueConfirmationCode(email)
	if err != nil {
		return err
	}

	// Best effort, never raises: a bounce must not disclose whether the
	// address exists or is reachable.
	go s.mail.Send(mailSubject, code, email)

	return nil
}

func (s *tokenService) Exchange(ctx context.Context, email, code string) (string, error) {
	signedEmail, err := s.VerifyConfirmationCode(code)
	if err != nil {
		return "", err
	}
	if signedEmail != email {
		return "", apperror.ErrEmailMismatch
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		user = &entity.User{Email: normalizeEmail(email)}
		user.SetRole(entity.RoleUser)
		if err := s.users.Create(ctx, user); err != nil {
			return "", err
		}
	}

	return s.mintAccessToken(user)
}

func (s *tokenService) mintAccessToken(user *entity.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) ParseAccessToken(tokenStr string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return userID, nil
}
