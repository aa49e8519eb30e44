// Package errors provides the error taxonomy of the kaban ledger.
// Every service-layer failure is an *AppError so handlers can map it to a
// stable code and status without leaking internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional details, and optional
// internal error.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	StatusCode int            `json:"-"`
	Retryable  bool           `json:"-"`
	Internal   error          `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches AppErrors by code so derived errors compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) clone() *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		Details:    e.Details,
		StatusCode: e.StatusCode,
		Retryable:  e.Retryable,
		Internal:   e.Internal,
	}
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	e := sentinel.clone()
	e.Internal = internal
	return e
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	e := sentinel.clone()
	e.Message = message
	return e
}

// WithDetails creates a new AppError carrying structured details for the client.
func WithDetails(sentinel *AppError, message string, details map[string]any) *AppError {
	e := sentinel.clone()
	e.Message = message
	e.Details = details
	return e
}

// Authentication errors. Authorization is the caller's concern; the API only
// needs to know who is acting and for which tenant.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Concurrency errors. Both leave the ledger untouched and are safe to retry.
var (
	ErrConcurrencyConflict = &AppError{Code: "CONCURRENCY_CONFLICT", Message: "The ledger is busy, please retry", StatusCode: http.StatusConflict, Retryable: true}
	ErrRequestAborted      = &AppError{Code: "REQUEST_ABORTED", Message: "The request was cancelled or timed out before the ledger was updated", StatusCode: http.StatusServiceUnavailable, Retryable: true}
)

// Fiscal year errors.
var (
	ErrFiscalYearNotFound          = &AppError{Code: "FISCAL_YEAR_NOT_FOUND", Message: "Fiscal year not found", StatusCode: http.StatusNotFound}
	ErrFiscalYearExists            = &AppError{Code: "FISCAL_YEAR_EXISTS", Message: "Fiscal year already exists", StatusCode: http.StatusConflict}
	ErrFiscalYearClosed            = &AppError{Code: "FISCAL_YEAR_CLOSED", Message: "Fiscal year is closed", StatusCode: http.StatusConflict}
	ErrInvalidFiscalYearTransition = &AppError{Code: "INVALID_FISCAL_YEAR_TRANSITION", Message: "Fiscal year cannot move to the requested status", StatusCode: http.StatusConflict}
)

// Budget proposal errors.
var (
	ErrProposalNotFound    = &AppError{Code: "PROPOSAL_NOT_FOUND", Message: "Budget proposal not found", StatusCode: http.StatusNotFound}
	ErrProposalNotEditable = &AppError{Code: "PROPOSAL_NOT_EDITABLE", Message: "Approved proposals cannot be edited", StatusCode: http.StatusConflict}
	ErrStaleProposal       = &AppError{Code: "STALE_PROPOSAL", Message: "Proposal was modified by someone else, reload and retry", StatusCode: http.StatusConflict}
	ErrAlreadyApproved     = &AppError{Code: "ALREADY_APPROVED", Message: "Proposal is already approved", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrAllotmentNotFound = &AppError{Code: "ALLOTMENT_NOT_FOUND", Message: "Allotment not found", StatusCode: http.StatusNotFound}
	ErrInsufficientFunds = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient allotment balance", StatusCode: http.StatusUnprocessableEntity}
)

// Obligation errors.
var (
	ErrObligationNotFound     = &AppError{Code: "OBLIGATION_NOT_FOUND", Message: "Obligation not found", StatusCode: http.StatusNotFound}
	ErrInvalidStateTransition = &AppError{Code: "INVALID_STATE_TRANSITION", Message: "Obligation cannot move to the requested status", StatusCode: http.StatusConflict}
)
