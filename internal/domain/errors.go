package domain

import (
	"fmt"
)

// Error codes for different failure scenarios
const (
	ErrUnknownSymptom    = "UNKNOWN_SYMPTOM"
	ErrPredictionFailure = "PREDICTION_FAILURE"
	ErrStartupFailure    = "STARTUP_FAILURE"
	ErrInvalidInput      = "INVALID_INPUT"
	ErrRateLimit         = "RATE_LIMIT_EXCEEDED"
	ErrInternalServer    = "INTERNAL_SERVER_ERROR"
)

// UnknownSymptomError reports a symptom code absent from the catalog.
// It is a request-scoped validation failure, never fatal.
type UnknownSymptomError struct {
	Code string
}

// Error implements the error interface
func (e *UnknownSymptomError) Error() string {
	return fmt.Sprintf("%s: symptom code %q is not in the catalog", ErrUnknownSymptom, e.Code)
}

// NewUnknownSymptomError creates an UnknownSymptomError for the given code
func NewUnknownSymptomError(code string) *UnknownSymptomError {
	return &UnknownSymptomError{Code: code}
}

// PredictionFailureError reports that one of the ensemble's classifiers
// failed to produce a usable probability distribution.
type PredictionFailureError struct {
	Classifier string
	Reason     string
	Err        error
}

// Error implements the error interface
func (e *PredictionFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: classifier %s: %s: %v", ErrPredictionFailure, e.Classifier, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: classifier %s: %s", ErrPredictionFailure, e.Classifier, e.Reason)
}

// Unwrap exposes the underlying classifier error, if any
func (e *PredictionFailureError) Unwrap() error {
	return e.Err
}

// NewPredictionFailureError creates a PredictionFailureError
func NewPredictionFailureError(classifier, reason string, err error) *PredictionFailureError {
	return &PredictionFailureError{Classifier: classifier, Reason: reason, Err: err}
}

// StartupFailureError reports that a catalog or model failed to load.
// The process must not serve traffic after one of these.
type StartupFailureError struct {
	Component string
	Err       error
}

// Error implements the error interface
func (e *StartupFailureError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStartupFailure, e.Component, e.Err)
}

// Unwrap exposes the underlying load error
func (e *StartupFailureError) Unwrap() error {
	return e.Err
}

// NewStartupFailureError creates a StartupFailureError
func NewStartupFailureError(component string, err error) *StartupFailureError {
	return &StartupFailureError{Component: component, Err: err}
}
