package core

import "errors"

// Sentinel errors, grouped by how callers are expected to react. Every
// operation in the engine returns these as values; nothing is fatal to the
// process.
var (
	// Configuration errors: the period or budget amount is unusable and no
	// snapshot can be produced. Callers fall back to a "budget not
	// configured" state.
	ErrPeriodUnset    = errors.New("budget period is not configured")
	ErrPeriodInverted = errors.New("budget period ends before it starts")
	ErrNegativeBudget = errors.New("budget amount cannot be negative")

	// Validation errors: the submitted record is incomplete and is rejected
	// before any write occurs.
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyName          = errors.New("empty goal name")
	ErrInvalidDeadline    = errors.New("invalid deadline")

	// Permission errors: a guest identity attempted a write.
	ErrGuestWrite = errors.New("guest identity cannot modify data")
)

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrPeriodUnset) || errors.Is(err, ErrPeriodInverted) || errors.Is(err, ErrNegativeBudget)
}

func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrInvalidDate, ErrInvalidType,
		ErrEmptyDescription, ErrDescriptionTooLong,
		ErrEmptyName, ErrInvalidDeadline,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsPermissionError(err error) bool {
	return errors.Is(err, ErrGuestWrite)
}

// IsTransientIOError reports whether err is an I/O failure surfaced from
// storage or the change feed, i.e. anything outside the typed taxonomy above.
// Such failures are returned to the caller and never retried by the engine.
func IsTransientIOError(err error) bool {
	if err == nil {
		return false
	}
	return !IsConfigurationError(err) && !IsValidationError(err) && !IsPermissionError(err)
}
