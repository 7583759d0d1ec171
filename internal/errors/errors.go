// Package errors defines the error taxonomy of the ETL pipeline. Fatal
// conditions (bad configuration, schema violations, extraction and storage
// failures) are typed and coded here; row-level data defects are never
// errors and are counted by the quality filter instead.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies the class of a pipeline error.
type Code string

const (
	CodeConfig     Code = "CONFIG_ERROR"
	CodeSchema     Code = "SCHEMA_VIOLATION"
	CodeExtraction Code = "EXTRACTION_FAILED"
	CodeStorage    Code = "STORAGE_FAILED"
)

// PipelineError is a fatal error raised by a pipeline stage. It aborts the
// remaining stages of the run.
type PipelineError struct {
	Code    Code
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewConfigError reports an invalid or out-of-domain configuration value,
// detected before any row is processed.
func NewConfigError(op, message string) *PipelineError {
	return &PipelineError{Code: CodeConfig, Op: op, Message: message}
}

// NewSchemaError reports a required column absent from the raw input,
// detected before filtering begins.
func NewSchemaError(op, column string) *PipelineError {
	return &PipelineError{
		Code:    CodeSchema,
		Op:      op,
		Message: fmt.Sprintf("required column %q missing from input", column),
	}
}

// NewExtractionError reports an unavailable or unparsable source.
func NewExtractionError(op, message string, err error) *PipelineError {
	return &PipelineError{Code: CodeExtraction, Op: op, Message: message, Err: err}
}

// NewStorageError reports a failure persisting a layer output.
func NewStorageError(op, message string, err error) *PipelineError {
	return &PipelineError{Code: CodeStorage, Op: op, Message: message, Err: err}
}

// CodeOf extracts the pipeline error code from err, or empty if err is not a
// PipelineError.
func CodeOf(err error) Code {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool { return CodeOf(err) == CodeConfig }

// IsSchema reports whether err is a schema violation.
func IsSchema(err error) bool { return CodeOf(err) == CodeSchema }

// IsExtraction reports whether err is an extraction failure.
func IsExtraction(err error) bool { return CodeOf(err) == CodeExtraction }
