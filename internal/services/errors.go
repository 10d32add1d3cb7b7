package services

import (
	"errors"

	apperrors "github.com/mbtmi/mbtmi/internal/errors"
	"github.com/mbtmi/mbtmi/internal/scoring"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")
	ErrStorage          = errors.New("storage failure")
	ErrCorruptData      = errors.New("stored data is corrupt")

	// Credential errors
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Catalogue errors
	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrResultNotFound   = errors.New("result not found")

	// Session errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotScored     = errors.New("session has not been scored")
	ErrSessionAlreadyScored = errors.New("session already scored")
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionNotScored)
}

// IsUnauthorized reports a failed credential check
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	if errors.As(err, &single) {
		return true
	}
	var incomplete *scoring.IncompleteError
	return errors.As(err, &incomplete)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrSessionAlreadyScored)
}

// IsCorruptData reports stored values the service cannot interpret, such as
// an axis tag outside the known set.
func IsCorruptData(err error) bool {
	if errors.Is(err, ErrCorruptData) {
		return true
	}
	var unknown *scoring.UnknownAxisError
	return errors.As(err, &unknown)
}

// IsStorage reports an underlying store failure
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
