package service

import "errors"

// ValidationError marks client input problems that should surface as 400s.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIncorrectOldPassword indicates a password change with a wrong current password.
	ErrIncorrectOldPassword = NewValidationError("Incorrect old password.")
	// ErrUsernameTaken is returned when attempting to claim an existing username.
	ErrUsernameTaken = NewValidationError("username already exists")
	// ErrEmailTaken is returned when attempting to register an existing email.
	ErrEmailTaken = NewValidationError("email already exists")
	// ErrUserNotFound indicates the referenced user no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
