package apperrors

import (
	"net/http"
)

// Factories and predefined variables for domain errors.

// ErrNotFound converts a repository "record not found" into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a duplicate-record error into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation flags an operation the current state does not allow.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Email or password is incorrect",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or malformed token",
	http.StatusUnauthorized,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token has expired",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrCannotModifySelf guards admin endpoints against self-targeting
// (an admin deactivating or deleting their own account).
var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Users ---

var ErrUserInactive = New(
	CodeInvalidOperation,
	"user",
	"User account is deactivated",
	http.StatusForbidden,
)

var ErrEmailTaken = New(
	CodeAlreadyExists,
	"user",
	"A user with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"user",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

// --- Payments (Binance Pay verification) ---

// ErrBinanceDisabled: no enabled credentials configured. Surfaced as a
// configuration error, nothing is persisted.
var ErrBinanceDisabled = New(
	CodeInvalidOperation,
	"payment",
	"Binance Pay is not enabled",
	http.StatusBadRequest,
)

// ErrPaymentAlreadyProcessed: a transaction record for this order id already
// exists. Details carry the existing record; no provider call is made.
var ErrPaymentAlreadyProcessed = New(
	CodeAlreadyExists,
	"payment",
	"This payment has already been processed",
	http.StatusBadRequest,
)

// ErrBinanceUnavailable: transport failure or non-2xx from the provider.
var ErrBinanceUnavailable = New(
	CodeExternalServiceError,
	"payment",
	"Payment provider is unavailable",
	http.StatusServiceUnavailable,
)

// --- Phone registry proxy ---

var ErrCheckAPIUnavailable = New(
	CodeExternalServiceError,
	"phone_registry",
	"Check API is unavailable",
	http.StatusBadGateway,
)

var ErrCheckAPITimeout = New(
	CodeExternalServiceError,
	"phone_registry",
	"Check API request timed out",
	http.StatusGatewayTimeout,
)
