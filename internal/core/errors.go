package core

import "errors"

// Error taxonomy shared by every service. Storage signals ErrNotFound;
// everything else is caught by validation before storage is touched.
var (
	ErrNotFound = errors.New("not found")

	// Validation
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrNegativeAmount   = errors.New("amount must be greater than or equal to 0")
	ErrEmptyDescription = errors.New("description is required")
	ErrInvalidDate      = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrMissingDates     = errors.New("start date and end date are required")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrInvalidType      = errors.New("transaction type must be income or expense")
	ErrMissingCategory  = errors.New("category is required")

	// Goal lifecycle
	ErrGoalCompleted = errors.New("goal already completed")
	ErrGoalLapsed    = errors.New("goal end date has passed")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrMissingCredentials = errors.New("username, email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrEmailTaken         = errors.New("email already registered")
)

// IsValidation reports whether err is a bad-input error rather than a
// not-found or storage fault.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrInvalidAmount, ErrNegativeAmount, ErrEmptyDescription,
		ErrInvalidDate, ErrMissingDates, ErrInvalidDateRange,
		ErrInvalidType, ErrMissingCategory,
		ErrGoalCompleted, ErrGoalLapsed,
		ErrMissingCredentials, ErrPasswordTooShort,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
