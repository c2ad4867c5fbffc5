package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

func newTokenService(t *testing.T, mail *fakeMailer) (TokenService, repository.UserRepository) {
	t.Helper()

	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	if mail == nil {
		mail = newFakeMailer()
	}
	return NewTokenService(users, mail, "test-secret", 15*time.Minute, time.Hour), users
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, _ := newTokenService(t, nil)

	code, err := svc.IssueConfirmationCode("reader@example.com")
	require.NoError(t, err)

	email, err := svc.VerifyConfirmationCode(code)
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", email)
}

func TestVerifyExpiredCode(t *testing.T) {
	svc, _ := newTokenService(t, nil)

	code, err := svc.(*tokenService).issueCode("reader@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyConfirmationCode(code)
	require.ErrorIs(t, err, apperror.ErrExpiredCredential)
}

func TestVerifyRejectsTamperedCode(t *testing.T) {
	svc, _ := newTokenService(t, nil)
	other := NewTokenService(nil, newFakeMailer(), "other-secret", time.Minute, time.Hour)

	code, err := other.IssueConfirmationCode("reader@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyConfirmationCode(code)
	require.ErrorIs(t, err, apperror.ErrInvalidCredential)

	_, err = svc.VerifyConfirmationCode("not-a-token")
	require.ErrorIs(t, err, apperror.ErrInvalidCredential)
}

func TestExchangeCreatesUserOnFirstUse(t *testing.T) {
	svc, users := newTokenService(t, nil)

	code, err := svc.IssueConfirmationCode("newcomer@example.com")
	require.NoError(t, err)

	token, err := svc.Exchange(testCtx, "newcomer@example.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.ParseAccessToken(token)
	require.NoError(t, err)

	user, err := users.FindByID(testCtx, userID)
	require.NoError(t, err)
	require.Equal(t, "newcomer@example.com", user.Email)
	require.Equal(t, entity.RoleUser, user.Role)
	require.False(t, user.IsStaff)
	require.Nil(t, user.Username)
}

func TestExchangeReusesExistingUser(t *testing.T) {
	svc, users := newTokenService(t, nil)

	code, err := svc.IssueConfirmationCode("regular@example.com")
	require.NoError(t, err)

	first, err := svc.Exchange(testCtx, "regular@example.com", code)
	require.NoError(t, err)

	code2, err := svc.IssueConfirmationCode("regular@example.com")
	require.NoError(t, err)
	second, err := svc.Exchange(testCtx, "regular@example.com", code2)
	require.NoError(t, err)

	firstID, err := svc.ParseAccessToken(first)
	require.NoError(t, err)
	secondID, err := svc.ParseAccessToken(second)
	require.NoError(t, err)
	require.Equal(t, firstID, secondID)

	_, err = users.FindByID(testCtx, firstID)
	require.NoError(t, err)
}

func TestExchangeEmailMismatch(t *testing.T) {
	svc, _ := newTokenService(t, nil)

	code, err := svc.IssueConfirmationCode("alice@example.com")
	require.NoError(t, err)

	_, err = svc.Exchange(testCtx, "mallory@example.com", code)
	require.ErrorIs(t, err, apperror.ErrEmailMismatch)
}

func TestSendConfirmationCodeDeliversSignedCode(t *testing.T) {
	mail := newFakeMailer()
	svc, _ := newTokenService(t, mail)

	require.NoError(t, svc.SendConfirmationCode(testCtx, "reader@example.com"))

	select {
	case body := <-mail.sent:
		email, err := svc.VerifyConfirmationCode(body)
		require.NoError(t, err)
		require.Equal(t, "reader@example.com", email)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation code was never handed to the mailer")
	}
}
