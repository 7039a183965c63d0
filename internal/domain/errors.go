package domain

import "errors"

var (
	ErrInvalidAgentID       = errors.New("agentId is required")
	ErrInvalidUserID        = errors.New("uid is required")
	ErrPolicyNotFound       = errors.New("policy not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrMissingCustomerEmail = errors.New("policy has no customer email")
	ErrPolicyOutsideWindow  = errors.New("policy expiry is outside the reminder window")
	ErrDispatchDisabled     = errors.New("reminder dispatch is not configured")
	ErrFileRequired         = errors.New("no file uploaded")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrTokenNotFound        = errors.New("oauth token not found")
)
