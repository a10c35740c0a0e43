package common

import "errors"

// Error kinds. Match them with errors.Is; the concrete value returned by the
// stores is an *Error carrying a user-facing message.
var (
	ErrValidation     = errors.New("validation error")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
)

// Error is a domain failure. Message is safe to show to the user; Field names
// the offending input for validation failures and is empty otherwise.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewValidationError(field, msg string) *Error {
	return &Error{Kind: ErrValidation, Field: field, Message: msg}
}

func NewConflictError(field, msg string) *Error {
	return &Error{Kind: ErrConflict, Field: field, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NewAuthenticationError(msg string) *Error {
	return &Error{Kind: ErrAuthentication, Message: msg}
}

func NewAuthorizationError(msg string) *Error {
	return &Error{Kind: ErrAuthorization, Message: msg}
}

// KindOf returns the sentinel kind of err, or nil when err is not a domain error.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
