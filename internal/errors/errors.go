// Package errors provides the application error taxonomy.
// Every service-layer failure is an *AppError so handlers can render a
// consistent response without leaking storage details to clients.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its concrete code.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindInvalidState       Kind = "INVALID_STATE"
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"
	KindConflict           Kind = "CONFLICT"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInternal           Kind = "INTERNAL"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, kind and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Kind       Kind   `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that a
// customised copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   sentinel.Internal,
	}
}

// KindOf returns the kind of err, or KindInternal if err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func newError(kind Kind, code, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusFor(kind), Kind: kind}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidState, KindConflict:
		return http.StatusConflict
	case KindInvariantViolation:
		return http.StatusUnprocessableEntity
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = newError(KindUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrUnauthorizedAdmin  = newError(KindUnauthorized, "UNAUTHORIZED_ADMIN", "Unauthorized admin access")
	ErrUnauthorizedClient = newError(KindUnauthorized, "UNAUTHORIZED_CLIENT", "Unauthorized client access")
)

// General errors.
var (
	ErrInvalidInput   = newError(KindInvalidInput, "INVALID_INPUT", "Invalid input")
	ErrNotFound       = newError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrInvalidState   = newError(KindInvalidState, "INVALID_STATE", "Operation not allowed in the current state")
	ErrInternalServer = newError(KindInternal, "INTERNAL_ERROR", "An internal error occurred")
)

// Client errors.
var (
	ErrClientNotFound    = newError(KindNotFound, "CLIENT_NOT_FOUND", "Client not found")
	ErrDuplicateEmail    = newError(KindConflict, "DUPLICATE_EMAIL", "A client with this email already exists")
	ErrClientHasHistory  = newError(KindConflict, "CLIENT_HAS_HISTORY", "Client wallet has purchase or withdraw history")
	ErrClientNotPremium  = newError(KindInvariantViolation, "CLIENT_NOT_PREMIUM", "Price variation subscriptions require a premium plan")
	ErrAlreadySubscribed = newError(KindConflict, "ALREADY_SUBSCRIBED", "Client is already subscribed to this notification")
)

// Asset errors.
var (
	ErrAssetNotFound             = newError(KindNotFound, "ASSET_NOT_FOUND", "Asset not found")
	ErrAssetTypeNotFound         = newError(KindNotFound, "ASSET_TYPE_NOT_FOUND", "Asset type not found")
	ErrAssetInactive             = newError(KindInvariantViolation, "ASSET_INACTIVE", "Asset is inactive")
	ErrAssetReferenced           = newError(KindConflict, "ASSET_REFERENCED", "Asset is referenced by purchases or withdraws")
	ErrInvalidAssetType          = newError(KindInvariantViolation, "INVALID_ASSET_TYPE", "Quotation can only be updated for stocks and crypto")
	ErrInvalidQuotationVariation = newError(KindInvariantViolation, "INVALID_QUOTATION_VARIATION", "Quotation must vary by at least 1%")
	ErrInsufficientAssetQuantity = newError(KindInvariantViolation, "INSUFFICIENT_ASSET_QUANTITY", "Insufficient asset quantity available")
)

// Wallet and holding errors.
var (
	ErrWalletNotFound      = newError(KindNotFound, "WALLET_NOT_FOUND", "Wallet not found")
	ErrHoldingNotFound     = newError(KindNotFound, "HOLDING_NOT_FOUND", "Holding not found")
	ErrInsufficientBudget  = newError(KindInvariantViolation, "INSUFFICIENT_BUDGET", "Insufficient budget for this purchase")
	ErrInsufficientHolding = newError(KindInvariantViolation, "INSUFFICIENT_HOLDING", "Insufficient holding quantity for this withdraw")
)

// Purchase, withdraw and subscription errors.
var (
	ErrPurchaseNotFound     = newError(KindNotFound, "PURCHASE_NOT_FOUND", "Purchase not found")
	ErrWithdrawNotFound     = newError(KindNotFound, "WITHDRAW_NOT_FOUND", "Withdraw not found")
	ErrSubscriptionNotFound = newError(KindNotFound, "SUBSCRIPTION_NOT_FOUND", "Subscription not found")
)
