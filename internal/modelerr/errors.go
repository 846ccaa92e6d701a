// Package modelerr defines the error taxonomy shared by the declaration
// contexts, the registry, and the unit checker.
//
// Every concrete error type matches its sentinel through errors.Is, so callers
// can branch on the category without caring about the details:
//
//	if errors.Is(err, modelerr.ErrDuplicateName) { ... }
package modelerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per category.
var (
	// ErrConfiguration is returned when a declaration scope is entered without
	// an active model registry.
	ErrConfiguration = errors.New("configuration error")

	// ErrUsage is returned when a declaration context is used in a way it does
	// not support.
	ErrUsage = errors.New("usage error")

	// ErrValidation is returned when a declared value does not match the shape
	// its kind expects.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateName is returned when a name is already taken in the registry.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnit is returned when the unit checker finds a dimensional mismatch.
	ErrUnit = errors.New("unit error")
)

// ConfigurationError reports a missing or unusable model registry.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// UsageError reports a declaration context opened or called in an
// unsupported way.
type UsageError struct {
	Context string
	Message string
}

func (e *UsageError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Context, e.Message)
	}
	return e.Message
}

func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// ValidationError reports a raw declared value whose shape or type does not
// match what its kind expects.
type ValidationError struct {
	Kind    string
	Name    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s '%s': %s", e.Kind, e.Name, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateNameError reports a name collision in the registry.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s '%s' already exists in the model", capitalize(e.Kind), e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// UnitError collects every dimensional inconsistency found in one check.
type UnitError struct {
	Issues []string
}

func (e *UnitError) Error() string {
	if len(e.Issues) == 1 {
		return "unit check failed: " + e.Issues[0]
	}
	return fmt.Sprintf("unit check failed:\n- %s", strings.Join(e.Issues, "\n- "))
}

func (e *UnitError) Is(target error) bool {
	return target == ErrUnit
}

// NewValidationError creates a ValidationError for the named entity.
func NewValidationError(kind, name, format string, args ...any) error {
	return &ValidationError{Kind: capitalize(kind), Name: name, Message: fmt.Sprintf(format, args...)}
}

// NewDuplicateNameError creates a DuplicateNameError.
func NewDuplicateNameError(kind, name string) error {
	return &DuplicateNameError{Kind: kind, Name: name}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
