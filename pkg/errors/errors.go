package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrClientNotFound         = errors.New("client not found")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrOutOfStock             = errors.New("product is out of stock")
	ErrPaymentAlreadyRecorded = errors.New("payment already recorded")
	ErrLoanAlreadyCompleted   = errors.New("loan is already completed")
	ErrInvalidInput           = errors.New("invalid input")
	ErrForbidden              = errors.New("operation not permitted for this actor")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeOutOfStock    = "OUT_OF_STOCK"
	ErrCodeAlreadyPaid   = "PAYMENT_ALREADY_RECORDED"
	ErrCodeAuthorization = "AUTHORIZATION_ERROR"
	ErrCodePersistence   = "PERSISTENCE_ERROR"
	ErrCodeCacheError    = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrInvalidInput)
}

func WrapNotFound(entity, id string) *BusinessError {
	var sentinel error
	switch entity {
	case "loan":
		sentinel = ErrLoanNotFound
	case "product":
		sentinel = ErrProductNotFound
	case "client":
		sentinel = ErrClientNotFound
	case "installment":
		sentinel = ErrInstallmentNotFound
	default:
		sentinel = fmt.Errorf("%s not found", entity)
	}
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s %s not found", entity, id),
		sentinel,
	)
}

func WrapOutOfStock(productID string) *BusinessError {
	return NewBusinessError(
		ErrCodeOutOfStock,
		fmt.Sprintf("product %s is out of stock", productID),
		ErrOutOfStock,
	)
}

func WrapAlreadyPaid(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyPaid,
		fmt.Sprintf("installment %s is already paid", installmentID),
		ErrPaymentAlreadyRecorded,
	)
}

func WrapLoanCompleted(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("loan %s is already completed", loanID),
		ErrLoanAlreadyCompleted,
	)
}

func WrapConflict(message string) *BusinessError {
	return NewBusinessError(ErrCodeConflict, message, nil)
}

func WrapForbidden(message string) *BusinessError {
	return NewBusinessError(ErrCodeAuthorization, message, ErrForbidden)
}

func WrapPersistence(err error) *BusinessError {
	return NewBusinessError(ErrCodePersistence, "database operation failed", err)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(ErrCodeCacheError, "cache operation failed", err)
}

// CodeOf returns the business error code, or PERSISTENCE_ERROR for unknown errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodePersistence
}
