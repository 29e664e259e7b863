package service

import "errors"

// Failure kinds. Every error a service returns either wraps one of these or
// is an unexpected infrastructure failure.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("access denied")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
)

// Error is a service failure with a caller-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrInvalidCredentials   = newError(ErrAuthentication, "invalid email or password")
	ErrInvalidToken         = newError(ErrAuthentication, "invalid or expired token")
	ErrAdminSelfRegister    = newError(ErrAuthorization, "admin accounts cannot be self-registered")
	ErrNoActiveSubscription = newError(ErrAuthorization, "no active self-training subscription")
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrAssessmentNotFound   = newError(ErrNotFound, "assessment not found")
	ErrPlanNotFound         = newError(ErrNotFound, "plan not found")
	ErrPackageNotFound      = newError(ErrNotFound, "package not found")
	ErrSubscriptionNotFound = newError(ErrNotFound, "subscription not found")
	ErrHabitNotFound        = newError(ErrNotFound, "habit not found")
	ErrUserAlreadyExists    = newError(ErrConflict, "user with this email already exists")
	ErrConcurrentUpdate     = newError(ErrConflict, "assessment was modified concurrently, retry")
	ErrPlanAlreadyGenerated = newError(ErrConflict, "plan for this completion was already generated")
)

// validationError wraps ErrValidation with a field-specific message.
func validationError(message string) error {
	return newError(ErrValidation, message)
}
