package service

import (
	"fmt"
	"net/http"
)

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidAmount          = "invalid_amount"
	ErrCodeInvalidAccountNumber   = "invalid_account_number"
	ErrCodeAccountNotFound        = "account_not_found"
	ErrCodeTargetAccountNotFound  = "target_account_not_found"
	ErrCodeAccountInactive        = "account_inactive"
	ErrCodeMovementLimitExceeded  = "movement_limit_exceeded"
	ErrCodeInsufficientFunds      = "insufficient_funds"
	ErrCodeSameAccount            = "same_account"
	ErrCodeCustomerNotFound       = "customer_not_found"
	ErrCodeAccountTypeNotAllowed  = "account_type_not_allowed"
	ErrCodeAccountAlreadyExists   = "account_already_exists"
	ErrCodeMinimumOpeningBalance  = "minimum_opening_balance"
	ErrCodeInternalError          = "internal_error"
)

// StatusFor maps a service error code to the response code surfaced on both
// the HTTP API and the bus validation channel. Source-account lookup misses
// are 404; a missing transfer target is rejected as a 400 before any
// mutation.
func StatusFor(code string) int {
	switch code {
	case ErrCodeAccountNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidAmount,
		ErrCodeInvalidAccountNumber,
		ErrCodeTargetAccountNotFound,
		ErrCodeAccountInactive,
		ErrCodeMovementLimitExceeded,
		ErrCodeInsufficientFunds,
		ErrCodeSameAccount,
		ErrCodeCustomerNotFound,
		ErrCodeAccountTypeNotAllowed,
		ErrCodeAccountAlreadyExists,
		ErrCodeMinimumOpeningBalance:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
