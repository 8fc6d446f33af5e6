package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTimeout            = errors.New("request timeout")
	ErrUnknownSetting     = errors.New("unknown setting")
	ErrInvalidSetting     = errors.New("invalid setting value")
	ErrMissingElement     = errors.New("missing required element")
	ErrMalformedMessage   = errors.New("malformed message")
	ErrBridgeUnavailable  = errors.New("bridge unavailable")
	ErrConfigNotFound     = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// BoxError wraps an error with a user-friendly suggestion.
type BoxError struct {
	Err        error
	Suggestion string
}

func (e *BoxError) Error() string {
	return e.Err.Error()
}

func (e *BoxError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &BoxError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Invalid returns an ErrInvalidInput error describing what was wrong.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var boxErr *BoxError
	if errors.As(err, &boxErr) && boxErr.Suggestion != "" {
		return boxErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrBackendUnavailable) || strings.Contains(errStr, "connection refused") {
		return "Make sure the game client is running and the resource is started"
	}

	if errors.Is(err, ErrBridgeUnavailable) {
		return "Start the overlay with 'tokyobox serve' or 'tokyobox ui' first"
	}

	if errors.Is(err, ErrTimeout) || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return "The backend is slow to respond. Try again in a moment"
	}

	if errors.Is(err, ErrUnknownSetting) {
		return "Run 'tokyobox settings show' to list the known settings"
	}

	if errors.Is(err, ErrInvalidSetting) {
		return "Check the allowed values with 'tokyobox settings set --help'"
	}

	if errors.Is(err, ErrMissingElement) {
		return "The overlay could not be initialized; check the log for the missing component"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Run 'tokyobox config init' to create a configuration file"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
