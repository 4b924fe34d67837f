package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeZep represents Zep API errors
	ErrorTypeZep ErrorType = "zep"
	// ErrorTypePipeline represents workflow/pipeline errors
	ErrorTypePipeline ErrorType = "pipeline"
	// ErrorTypeNarrative represents LLM narrative errors
	ErrorTypeNarrative ErrorType = "narrative"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// typed is satisfied by every error in this package through BaseError
type typed interface {
	errorType() ErrorType
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Zep Errors

// ErrZepRequestFailed is returned when a Zep API request fails
type ErrZepRequestFailed struct {
	*BaseError
	UserID     string
	StatusCode int
}

func NewZepRequestFailed(userID string, statusCode int, err error) *ErrZepRequestFailed {
	return &ErrZepRequestFailed{
		BaseError:  NewBaseError(ErrorTypeZep, fmt.Sprintf("Zep request failed for user %s", userID), err),
		UserID:     userID,
		StatusCode: statusCode,
	}
}

// ErrZepUserNotFound is returned when Zep has no record of the user
type ErrZepUserNotFound struct {
	*BaseError
	UserID string
}

func NewZepUserNotFound(userID string) *ErrZepUserNotFound {
	return &ErrZepUserNotFound{
		BaseError: NewBaseError(ErrorTypeZep, fmt.Sprintf("user not found: %s", userID), nil),
		UserID:    userID,
	}
}

// Pipeline Errors

// ErrPipelineNodeFailed is returned when a workflow node fails
type ErrPipelineNodeFailed struct {
	*BaseError
	Node string
}

func NewPipelineNodeFailed(node string, err error) *ErrPipelineNodeFailed {
	return &ErrPipelineNodeFailed{
		BaseError: NewBaseError(ErrorTypePipeline, fmt.Sprintf("node failed: %s", node), err),
		Node:      node,
	}
}

// ErrPipelineInvalidGraph is returned when the workflow graph does not compile
type ErrPipelineInvalidGraph struct {
	*BaseError
	Reason string
}

func NewPipelineInvalidGraph(reason string) *ErrPipelineInvalidGraph {
	return &ErrPipelineInvalidGraph{
		BaseError: NewBaseError(ErrorTypePipeline, fmt.Sprintf("invalid graph: %s", reason), nil),
		Reason:    reason,
	}
}

// Narrative Errors

// ErrNarrativeFailed is returned when LLM narrative generation fails
type ErrNarrativeFailed struct {
	*BaseError
	Model string
}

func NewNarrativeFailed(model string, err error) *ErrNarrativeFailed {
	return &ErrNarrativeFailed{
		BaseError: NewBaseError(ErrorTypeNarrative, "narrative generation failed", err),
		Model:     model,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var t typed
	if stderrors.As(err, &t) {
		return t.errorType() == errType
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	// 5xx from Zep is worth retrying, 4xx is not
	var zepErr *ErrZepRequestFailed
	if stderrors.As(err, &zepErr) {
		return zepErr.StatusCode == 0 || zepErr.StatusCode >= 500
	}
	// Narrative generation is best-effort either way
	if IsErrorType(err, ErrorTypeNarrative) {
		return true
	}
	return false
}
