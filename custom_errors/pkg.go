// Package custom_errors provides error handling functionality for flag-related,
// argument-related and geometry-related operations across the hexmaps CLI.
package custom_errors

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidFlag represents an error indicating an invalid flag.
var ErrInvalidFlag = errors.New("invalid flag")

// ErrInvalidArgument represents an error indicating an invalid argument.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidGeometry represents an error indicating geometry that cannot be
// assembled or is of an unexpected type.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ErrIncompleteData represents an error indicating that referenced elements
// are missing from a result set and could not be resolved.
var ErrIncompleteData = errors.New("incomplete data")

// FlagName is a string type representing the name of a flag.
type FlagName string

// Error validates the FlagName and returns an error if it's invalid.
// A valid flag name must contain only lowercase alphanumerics and hyphens.
func (self FlagName) Error() error {
	regex := regexp.MustCompile(`^[a-z0-9-]+$`)
	if !regex.MatchString(string(self)) {
		return fmt.Errorf("%w: %s must be lowercase alphanumeric: %s", ErrInvalidFlag, self, string(self))
	}
	return nil
}

// CreateInvalidFlagErrorWithMessage creates an error with a custom message for an invalid flag.
// It first validates the flag name and returns the validation error if present.
var CreateInvalidFlagErrorWithMessage = func(flagName FlagName, message string) error {
	if err := flagName.Error(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s %s", ErrInvalidFlag, flagName, message)
}

// CreateInvalidArgumentErrorWithMessage creates an error with a custom message for an invalid argument.
var CreateInvalidArgumentErrorWithMessage = func(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
}

// CreateInvalidGeometryErrorWithMessage creates an error with a custom message
// for geometry that cannot be assembled.
var CreateInvalidGeometryErrorWithMessage = func(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidGeometry, message)
}

// CreateIncompleteDataErrorWithMessage creates an error with a custom message
// for missing element references.
var CreateIncompleteDataErrorWithMessage = func(message string) error {
	return fmt.Errorf("%w: %s", ErrIncompleteData, message)
}
