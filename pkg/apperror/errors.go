package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Authentication taxonomy.
	ErrInvalidCredential = errors.New("invalid confirmation code")
	ErrExpiredCredential = errors.New("confirmation code has expired")
	ErrEmailMismatch     = errors.New("email does not match the confirmation code")
	ErrMissingCredential = errors.New("admin accounts require both username and password")

	// Authorization / domain taxonomy.
	ErrPrivilegeEscalation = errors.New("you cannot grant a role with more privileges than your own")
	ErrUsernameRequired    = errors.New("you must set a username via PATCH /api/v1/users/me/ before posting reviews or comments")
	ErrDuplicateReview     = errors.New("you have already reviewed this title")
	ErrScoreOutOfRange     = errors.New("score must be between 1 and 10")

	// ErrRoleStaffInconsistency marks a write that would break the
	// role/is_staff invariant. A surfaced occurrence is a bug in a
	// write path, not a user error.
	ErrRoleStaffInconsistency = errors.New("role and staff flag are inconsistent")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps domain errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrPrivilegeEscalation),
		errors.Is(err, ErrUsernameRequired):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidCredential),
		errors.Is(err, ErrExpiredCredential),
		errors.Is(err, ErrEmailMismatch),
		errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrDuplicateReview),
		errors.Is(err, ErrScoreOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}

	// ErrRoleStaffInconsistency deliberately falls through: it is a
	// data-integrity fault and must surface as a server error.
	return http.StatusInternalServerError
}
