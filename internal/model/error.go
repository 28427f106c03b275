package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeUnauthorised   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeInvalidState   = "INVALID_STATE"
	ErrCodeWriteConflict  = "WRITE_CONFLICT"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// DomainError is a business-logic error carrying a stable code the handler
// layer maps to an HTTP status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductsRequired  = NewDomainError(ErrCodeInvalidRequest, "Products array is required")
	ErrNoValidProducts   = NewDomainError(ErrCodeInvalidRequest, "No valid products found")
	ErrItemsRequired     = NewDomainError(ErrCodeInvalidRequest, "Items array required")
	ErrInvalidOrderID    = NewDomainError(ErrCodeInvalidRequest, "Invalid order ID")
	ErrShippingRequired  = NewDomainError(ErrCodeInvalidRequest, "All shipping and payment fields are required")
	ErrInvalidCredential = NewDomainError(ErrCodeUnauthorised, "Invalid email or password")
	ErrNotOrderOwner     = NewDomainError(ErrCodeForbidden, "Unauthorized")
	ErrProductNotFound   = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrNoPendingCart     = NewDomainError(ErrCodeNotFound, "No pending cart found")
	ErrEmailTaken        = NewDomainError(ErrCodeConflict, "Email already registered")
	ErrOrderNotPending   = NewDomainError(ErrCodeInvalidState, "Order already confirmed")
	ErrWriteConflict     = NewDomainError(ErrCodeWriteConflict, "Concurrent cart modification, please retry")
)
