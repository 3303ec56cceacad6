package apperror

import "errors"

// Kind classifies a domain failure independently of its HTTP status.
type Kind string

const (
	KindUserNotFound        Kind = "USER_NOT_FOUND"
	KindItemNotFound        Kind = "ITEM_NOT_FOUND"
	KindBookingNotFound     Kind = "BOOKING_NOT_FOUND"
	KindRequestNotFound     Kind = "REQUEST_NOT_FOUND"
	KindInvalidUser         Kind = "INVALID_USER"
	KindNotAvailable        Kind = "NOT_AVAILABLE"
	KindWrongDate           Kind = "WRONG_DATE"
	KindNotAllowedAction    Kind = "NOT_ALLOWED_ACTION"
	KindInvalidStatus       Kind = "INVALID_STATUS"
	KindIncorrectPagination Kind = "INCORRECT_PAGINATION"
	KindEmptyDescription    Kind = "EMPTY_DESCRIPTION"
	KindEmailConflict       Kind = "EMAIL_CONFLICT"
	KindInvalidInput        Kind = "INVALID_INPUT"
)

// AppError is a custom error type that includes an HTTP status code, a domain kind
// and an optional wrapped error.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    Kind   // Domain classification
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind, status code and message.
func New(kind Kind, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a copy of base carrying a more specific message.
// The copy wraps base, so errors.Is(copy, base) still holds.
func WithMessage(base *AppError, message string) *AppError {
	return &AppError{
		Code:    base.Code,
		Kind:    base.Kind,
		Message: message,
		Err:     base,
	}
}

// KindOf returns the kind of the first AppError in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
