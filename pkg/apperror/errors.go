package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the category of a kiosk failure independently of its message.
type Kind string

const (
	KindInvalidScreenTransition Kind = "invalid_screen_transition"
	KindUnknownScreen           Kind = "unknown_screen"
	KindItemNotFound            Kind = "item_not_found"
	KindIndexOutOfRange         Kind = "index_out_of_range"
	KindEmptyCart               Kind = "empty_cart"
	KindInvalidPaymentMethod    Kind = "invalid_payment_method"
	KindInvalidDiscountCode     Kind = "invalid_discount_code"
	KindInvalidDiscount         Kind = "invalid_discount"
	KindInvalidItem             Kind = "invalid_item"
	KindScannerUnavailable      Kind = "scanner_unavailable"
	KindNotFound                Kind = "not_found"
	KindUnauthorized            Kind = "unauthorized"
	KindBadRequest              Kind = "bad_request"
	KindInternal                Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is reports whether target is an AppError of the same kind, so detailed
// errors built by the constructors below still match their sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Kiosk error taxonomy
var (
	ErrInvalidScreenTransition = &AppError{Code: http.StatusConflict, Kind: KindInvalidScreenTransition, Message: "Operation not allowed on the current screen"}
	ErrUnknownScreen           = &AppError{Code: http.StatusBadRequest, Kind: KindUnknownScreen, Message: "Invalid screen"}
	ErrItemNotFound            = &AppError{Code: http.StatusNotFound, Kind: KindItemNotFound, Message: "Item not found"}
	ErrIndexOutOfRange         = &AppError{Code: http.StatusBadRequest, Kind: KindIndexOutOfRange, Message: "Item index out of range"}
	ErrEmptyCart               = &AppError{Code: http.StatusConflict, Kind: KindEmptyCart, Message: "Cart is empty, nothing to remove"}
	ErrInvalidPaymentMethod    = &AppError{Code: http.StatusBadRequest, Kind: KindInvalidPaymentMethod, Message: "Invalid payment method"}
	ErrInvalidDiscountCode     = &AppError{Code: http.StatusNotFound, Kind: KindInvalidDiscountCode, Message: "Invalid discount code"}
	ErrInvalidDiscount         = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidDiscount, Message: "Discount amount cannot be negative"}
	ErrInvalidItem             = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidItem, Message: "Item price cannot be negative"}
	ErrScannerUnavailable      = &AppError{Code: http.StatusServiceUnavailable, Kind: KindScannerUnavailable, Message: "No barcode scanner configured"}
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrInvalidPIN     = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid attendant PIN"}
)

func newf(base *AppError, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    base.Code,
		Kind:    base.Kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInvalidScreenTransition reports an operation attempted outside its required screens.
func NewInvalidScreenTransition(operation, screen string) *AppError {
	return newf(ErrInvalidScreenTransition, "Cannot %s from the %s screen", operation, screen)
}

// NewUnknownScreen reports a navigation target outside the enumerated screens.
func NewUnknownScreen(screen string) *AppError {
	return newf(ErrUnknownScreen, "Invalid screen: %s", screen)
}

// NewItemNotFound reports a barcode absent from the catalog.
func NewItemNotFound(barcode string) *AppError {
	return newf(ErrItemNotFound, "Barcode %s not found in catalog", barcode)
}

// NewIndexOutOfRange reports a removal index outside [0, size).
func NewIndexOutOfRange(index, size int) *AppError {
	return newf(ErrIndexOutOfRange, "Invalid item index %d (cart has %d items)", index, size)
}

// NewInvalidPaymentMethod reports an unsupported payment method name.
func NewInvalidPaymentMethod(method string) *AppError {
	return newf(ErrInvalidPaymentMethod, "Invalid payment method: %s", method)
}

// NewInvalidDiscountCode reports an unknown or inactive discount code.
func NewInvalidDiscountCode(code string) *AppError {
	return newf(ErrInvalidDiscountCode, "Invalid discount code: %s", code)
}

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    KindInternal,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindBadRequest,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return newf(ErrNotFound, "%s not found", resource)
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return newf(ErrBadRequest, "%s", message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
