package domain

import "fmt"

// ConfigurationError reports an internally inconsistent plan. It is raised
// during validation, before any projection runs; a plan that validates never
// produces one mid-run.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid plan configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid plan configuration: %s: %s", e.Field, e.Reason)
}

// NewConfigurationError builds a ConfigurationError for the given field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SamplingError reports Monte Carlo parameters outside their valid bounds.
// It is raised before any iterations run.
type SamplingError struct {
	Reason string
}

func (e *SamplingError) Error() string {
	return "invalid sampling parameters: " + e.Reason
}

// NewSamplingError builds a SamplingError.
func NewSamplingError(format string, args ...any) *SamplingError {
	return &SamplingError{Reason: fmt.Sprintf(format, args...)}
}
