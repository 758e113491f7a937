package apiErrors

import "fmt"

type ErrorCode string

const (
	NotAuthenticated   ErrorCode = "NOT_AUTHENTICATED"
	UserNotProvisioned ErrorCode = "USER_NOT_PROVISIONED"
	InsufficientRole   ErrorCode = "INSUFFICIENT_ROLE"
	NotFound           ErrorCode = "NOT_FOUND"
	ValidationFailed   ErrorCode = "VALIDATION_FAILED"
	Conflict           ErrorCode = "CONFLICT"
	StoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	InternalError      ErrorCode = "INTERNAL_ERROR"
)

type APIError struct {
	Code    ErrorCode
	Message string
	// Field is set for VALIDATION_FAILED only.
	Field string
}

func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
