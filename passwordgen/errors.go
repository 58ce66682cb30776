package passwordgen

import "errors"

var (
	// ErrZeroLength is returned when Restriction.Length is 0.
	ErrZeroLength = errors.New("passwordgen: length must be greater than zero")

	// ErrNoRestriction is returned when no character class is enabled.
	ErrNoRestriction = errors.New("passwordgen: at least one character class must be enabled")

	// ErrTooManyRestrictions is returned when Length is smaller than the
	// number of enabled classes, since each class needs at least one slot.
	ErrTooManyRestrictions = errors.New("passwordgen: length is smaller than the number of enabled classes")
)
