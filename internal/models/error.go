package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("too many failed attempts")
	ErrInternalServer = errors.New("internal server error")

	// Validation errors for submitted profiles
	ErrInvalidExperience = errors.New("experience years must be an integer between 0 and 50")
	ErrInvalidEmail      = errors.New("email address is not valid")
)

// MissingFieldsError reports which required submission fields were blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
