package shared

import "fmt"

// DomainError represents a domain-level error. Details carries structured
// context (e.g. the itemized shortfall list) so callers can render a
// human-readable explanation without parsing the message.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// WithDetails returns a copy of the error carrying structured details
func (e *DomainError) WithDetails(details any) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewStoreFailure wraps an underlying persistence error. The engine never
// retries these itself; they are surfaced to the caller as-is.
func NewStoreFailure(err error) *DomainError {
	return &DomainError{
		Code:    "STORE_FAILURE",
		Message: fmt.Sprintf("Persistence operation failed: %v", err),
		cause:   err,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientPayment = NewDomainError("INSUFFICIENT_PAYMENT", "Payment amount is less than the total due")
	ErrEmptyCart           = NewDomainError("EMPTY_CART", "Cart contains no items")
	ErrInvalidTransition   = NewDomainError("INVALID_TRANSITION", "Status transition is not allowed")
)

// Shortfall describes one component or product whose available stock does not
// cover the requested quantity. A slice of these travels in the Details of an
// INSUFFICIENT_STOCK error.
type Shortfall struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Required  string `json:"required"`
	Available string `json:"available"`
}

// NewInsufficientStockError builds an INSUFFICIENT_STOCK error carrying the
// full list of shortfalls.
func NewInsufficientStockError(shortfalls []Shortfall) *DomainError {
	return ErrInsufficientStock.WithDetails(shortfalls)
}

// NewInvalidTransitionError builds an INVALID_TRANSITION error naming the
// rejected edge.
func NewInvalidTransitionError(from, to string) *DomainError {
	return &DomainError{
		Code:    "INVALID_TRANSITION",
		Message: fmt.Sprintf("Cannot transition from %s to %s", from, to),
		Details: map[string]string{"from": from, "to": to},
	}
}
