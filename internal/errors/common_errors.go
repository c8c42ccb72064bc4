package errors

import (
	"fmt"
)

// ErrorType classifies pipeline errors so callers can decide whether a
// failure is fatal to downstream stages or downgradable to a warning.
type ErrorType string

const (
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeAnalysis   ErrorType = "ANALYSIS"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error, e.g. the stage or column that
// produced it.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Type == errType
}

// Helper constructors for the pipeline error taxonomy.

// NewDataNotFoundError signals that no input file exists at the expected
// location and no fallback generator was invoked.
func NewDataNotFoundError(path string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("dataset not found at %s", path), nil).
		WithContext("path", path)
}

// NewMissingSchemaError signals that the raw input carried none of the
// recognized subject columns; nothing downstream can proceed.
func NewMissingSchemaError(stage string, expected []string) *AppError {
	return NewAppError(ErrTypeSchema, "no recognized subject columns in dataset", nil).
		WithContext("stage", stage).
		WithContext("expected_subjects", expected)
}

// NewEmptySchemaError is the transformer-side variant of the schema error,
// raised when derivation is attempted on a dataset with zero subject
// columns.
func NewEmptySchemaError(stage string) *AppError {
	return NewAppError(ErrTypeSchema, "dataset has no subject columns to derive from", nil).
		WithContext("stage", stage)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error. Callers writing
// non-essential outputs downgrade these to warnings.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a record or config validation error.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewAnalysisUnavailableError signals that aggregation was requested on an
// empty or schema-less dataset. No partial result accompanies it.
func NewAnalysisUnavailableError(reason string) *AppError {
	return NewAppError(ErrTypeAnalysis, "analysis unavailable: "+reason, nil).
		WithContext("stage", "aggregate")
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
