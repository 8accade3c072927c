package domain

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrValidation           = errors.New("validation failed")
	ErrConfigMissing        = errors.New("configuration missing")
	ErrUpstream             = errors.New("upstream error")
	ErrStorage              = errors.New("storage error")

	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskNotClaimable = errors.New("task not claimable")
	ErrActiveTaskExists = errors.New("active task exists")
)

// ErrorCode maps an error onto the code reported to API callers.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthenticationFailed):
		return "AUTHENTICATION_FAILED"
	case errors.Is(err, ErrPermissionDenied):
		return "PERMISSION_DENIED"
	case errors.Is(err, ErrResourceNotFound), errors.Is(err, ErrTaskNotFound):
		return "RESOURCE_NOT_FOUND"
	case errors.Is(err, ErrRateLimitExceeded):
		return "RATE_LIMIT_EXCEEDED"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrConfigMissing):
		return "CONFIG_MISSING"
	case errors.Is(err, ErrStorage):
		return "STORAGE_ERROR"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT_ERROR"
	case errors.Is(err, ErrUpstream):
		return "UPSTREAM_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// HTTPStatus maps an error onto the status the API answers with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrResourceNotFound), errors.Is(err, ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrTaskNotClaimable), errors.Is(err, ErrActiveTaskExists):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrStorage):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
