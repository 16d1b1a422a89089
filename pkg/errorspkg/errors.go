// Package errorspkg provides common app errors.
//
// Every error produced by the transfer engine carries a stable machine
// readable code along with its message, so that a replayed request can
// surface the exact outcome recorded at first completion.
package errorspkg

import (
	"errors"
	"fmt"
)

// Code identifies an error class independently of its message.
type Code string

// Codes for all errors surfaced by the transfer engine.
const (
	CodeInternal                Code = "INTERNAL"
	CodeResourceNotFound        Code = "RESOURCE_NOT_FOUND"
	CodeSameAccount             Code = "SAME_ACCOUNT"
	CodeInsufficientFunds       Code = "INSUFFICIENT_FUNDS"
	CodeExchangeUnavailable     Code = "EXCHANGE_UNAVAILABLE"
	CodeRequestConflict         Code = "REQUEST_CONFLICT"
	CodeInvalidRequestState     Code = "INVALID_REQUEST_STATE"
	CodeInsufficientRequestData Code = "INSUFFICIENT_REQUEST_DATA"
	CodeInvalidEntityState      Code = "INVALID_ENTITY_STATE"
	CodeInvalidAmount           Code = "INVALID_AMOUNT"
	CodeConcurrencyConflict     Code = "CONCURRENCY_CONFLICT"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// New returns a coded error with the given message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf returns a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrInternal indicates internal server error.
var ErrInternal = New(CodeInternal, "internal")

// CodeOf extracts the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsBusiness reports whether err is a permanent business rule failure.
//
// Business failures are recorded into the transfer request before being
// re-raised; transient and internal failures are not, so the request stays
// open for a later retry.
func IsBusiness(err error) bool {
	switch CodeOf(err) {
	case CodeSameAccount, CodeInsufficientFunds, CodeExchangeUnavailable, CodeResourceNotFound:
		return true
	}

	return false
}
