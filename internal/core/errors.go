package core

import "fmt"

// ConfigurationError reports an invalid or contradictory option. It is
// returned at construction time and never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NewConfigurationError creates a ConfigurationError
func NewConfigurationError(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LoadFailure wraps an error returned by a load-more or refresh callback.
type LoadFailure struct {
	Op  string // "loadMore" or "refresh"
	Err error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}

// RenderCallbackError wraps a failure in a caller-supplied render or size
// function for a single item.
type RenderCallbackError struct {
	Index int
	Key   string
	Err   error
}

func (e *RenderCallbackError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("render item %d (key %s): %v", e.Index, e.Key, e.Err)
	}
	return fmt.Sprintf("render item %d: %v", e.Index, e.Err)
}

func (e *RenderCallbackError) Unwrap() error {
	return e.Err
}
