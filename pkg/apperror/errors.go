package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Domain outcomes
	ErrDailyLimitReached     = errors.New("You have reached your daily limit of 5 challenges!")
	ErrVerificationRejected  = errors.New("verification rejected")
	ErrNoPendingVerification = errors.New("no pending verification")
	ErrOnboardingRequired    = errors.New("onboarding required")

	// AI collaborator failures. Neither ever reaches the progression engine.
	ErrAIQuotaExceeded = errors.New("AI quota exceeded, please try again later")
	ErrAIUnavailable   = errors.New("AI service unavailable")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
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

// Invalid wraps ErrInvalidInput with a user-facing message.
func Invalid(message string) *AppError {
	return New(http.StatusBadRequest, message, ErrInvalidInput)
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoPendingVerification):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrOnboardingRequired):
		return http.StatusConflict
	case errors.Is(err, ErrVerificationRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrRateLimitExceeded), errors.Is(err, ErrDailyLimitReached), errors.Is(err, ErrAIQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrAIUnavailable):
		return http.StatusBadGateway
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
