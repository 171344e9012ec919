package ocp

import "fmt"

// ConfigurationError reports a missing or invalid client setting.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ocp: %s is required and cannot be empty", e.Field)
}

// APIError reports a non-2xx response from the OCP API.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Method and Path identify the failed request.
	Method string
	Path   string
	// Body holds the raw response body, truncated for logging.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ocp: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// ArgumentKind classifies why a tool argument was rejected.
type ArgumentKind int

const (
	// MissingField means a required argument was absent or empty.
	MissingField ArgumentKind = iota
	// InvalidEnum means the value is not one of the accepted choices.
	InvalidEnum
	// OutOfRange means a numeric value fell outside its valid range.
	OutOfRange
)

// ArgumentError reports an invalid tool argument before any request is made.
type ArgumentError struct {
	Kind    ArgumentKind
	Field   string
	Message string
}

func (e *ArgumentError) Error() string {
	switch e.Kind {
	case InvalidEnum:
		return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Message)
	case OutOfRange:
		return fmt.Sprintf("%s out of range: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("%s is required", e.Field)
	}
}

// MissingArgument returns an ArgumentError for an absent required field.
func MissingArgument(field string) *ArgumentError {
	return &ArgumentError{Kind: MissingField, Field: field}
}

// InvalidEnumValue returns an ArgumentError for a value outside its choices.
func InvalidEnumValue(field, message string) *ArgumentError {
	return &ArgumentError{Kind: InvalidEnum, Field: field, Message: message}
}

// ValueOutOfRange returns an ArgumentError for a numeric value outside its range.
func ValueOutOfRange(field, message string) *ArgumentError {
	return &ArgumentError{Kind: OutOfRange, Field: field, Message: message}
}
