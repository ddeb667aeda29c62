package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
	ErrInvalidInput = errors.New("invalid input")

	// Content validation. Both are detected before any write is applied.
	ErrContentTooLong = errors.New("content exceeds the maximum length")
	ErrEmptyContent   = errors.New("content must not be empty")

	// Relationship conflicts. Each mirrors the unique index the storage
	// layer keeps as a second line of defense against racing callers.
	ErrAlreadyReposted  = errors.New("already reposted")
	ErrAlreadyQuoted    = errors.New("already quoted")
	ErrAlreadyReplied   = errors.New("comment already has an author reply")
	ErrAlreadyFollowing = errors.New("already following")

	ErrSelfRepost   = errors.New("cannot repost your own repost")
	ErrQuoteOfQuote = errors.New("cannot quote a quote")
	ErrSelfFollow   = errors.New("cannot follow yourself")

	ErrRateLimitExceeded = errors.New("rate limit exceeded")
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

// MapErrorToStatus maps common errors to HTTP status codes
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
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyReposted),
		errors.Is(err, ErrAlreadyQuoted),
		errors.Is(err, ErrAlreadyReplied),
		errors.Is(err, ErrAlreadyFollowing):
		return http.StatusConflict
	case errors.Is(err, ErrSelfRepost),
		errors.Is(err, ErrQuoteOfQuote),
		errors.Is(err, ErrSelfFollow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrContentTooLong),
		errors.Is(err, ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}

	// Default to internal server error
	return http.StatusInternalServerError
}
