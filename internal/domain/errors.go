package domain

import "errors"

// ErrorClass groups vault errors so adapters can map them without string matching
type ErrorClass string

const (
	ClassAuthorization ErrorClass = "AUTHORIZATION"
	ClassState         ErrorClass = "STATE"
	ClassValidation    ErrorClass = "VALIDATION"
	ClassFunds         ErrorClass = "FUNDS"
	ClassExists        ErrorClass = "EXISTS"
	ClassNotFound      ErrorClass = "NOT_FOUND"
)

// VaultError is a distinguishable vault failure.
// Every sentinel below is a single instance so errors.Is works through wrapping.
type VaultError struct {
	Class   ErrorClass
	Code    string
	Message string
}

func (e *VaultError) Error() string { return e.Message }

// common errors - keep grouped by class
var (
	ErrUnauthorized = &VaultError{ClassAuthorization, "Unauthorized", "caller is not the vault owner"}
	ErrNotStrategy  = &VaultError{ClassAuthorization, "NotStrategy", "not a registered strategy"}
	ErrNoCaller     = &VaultError{ClassAuthorization, "NoCaller", "caller identity is missing"}

	ErrPaused    = &VaultError{ClassState, "Paused", "vault is paused"}
	ErrNotPaused = &VaultError{ClassState, "NotPaused", "vault is not paused"}

	ErrZeroAmount      = &VaultError{ClassValidation, "ZeroAmount", "amount must be positive"}
	ErrZeroShares      = &VaultError{ClassValidation, "ZeroShares", "deposit is too small to mint any shares"}
	ErrInvalidAmount   = &VaultError{ClassValidation, "InvalidAmount", "amount must be a non-negative integer"}
	ErrInvalidIdentity = &VaultError{ClassValidation, "InvalidIdentity", "identity must not be empty"}
	ErrInvalidStrategy = &VaultError{ClassValidation, "InvalidStrategy", "strategy hook is required"}

	ErrInsufficientShares    = &VaultError{ClassFunds, "InsufficientShares", "insufficient shares"}
	ErrInsufficientBalance   = &VaultError{ClassFunds, "InsufficientBalance", "insufficient balance"}
	ErrInsufficientAllowance = &VaultError{ClassFunds, "InsufficientAllowance", "insufficient allowance"}
	ErrInsufficientLiquidity = &VaultError{ClassFunds, "InsufficientLiquidity", "strategy cannot return the requested amount"}

	ErrStrategyAlreadyRegistered = &VaultError{ClassExists, "StrategyAlreadyRegistered", "strategy already registered"}
	ErrStrategyNotRegistered     = &VaultError{ClassNotFound, "StrategyNotRegistered", "strategy not registered"}
	ErrStrategyNotEmpty          = &VaultError{ClassState, "StrategyNotEmpty", "strategy still holds allocated assets"}

	ErrOperationNotFound = &VaultError{ClassNotFound, "OperationNotFound", "operation not found"}
)

// ClassOf returns the class of a vault error, or "" for foreign errors
func ClassOf(err error) ErrorClass {
	var vaultErr *VaultError
	if errors.As(err, &vaultErr) {
		return vaultErr.Class
	}
	return ""
}

// CodeOf returns the stable code of a vault error, or "" for foreign errors
func CodeOf(err error) string {
	var vaultErr *VaultError
	if errors.As(err, &vaultErr) {
		return vaultErr.Code
	}
	return ""
}
