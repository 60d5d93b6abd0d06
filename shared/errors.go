package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	ErrorCategoryNetwork       ErrorCategory = "network"
	ErrorCategoryStorage       ErrorCategory = "storage"
	ErrorCategoryValidation    ErrorCategory = "validation"
	ErrorCategoryProcessing    ErrorCategory = "processing"
	ErrorCategoryUpstream      ErrorCategory = "upstream"
)

// ServiceError represents a standardized error with additional context
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Retryable   bool          `json:"retryable"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, serviceName, operation string, retryable bool, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Retryable:   retryable,
		Cause:       cause,
	}
}

// IsRetryable returns whether the error is retryable
func (e *ServiceError) IsRetryable() bool {
	return e.Retryable
}

// LogError logs the error with structured fields
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_code":       e.Code,
		"error_message":    e.Message,
		"service_name":     e.ServiceName,
		"operation":        e.Operation,
		"retryable":        e.Retryable,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}

// WrapError wraps an existing error with service error context
func WrapError(err error, category ErrorCategory, code, serviceName, operation string, retryable bool) *ServiceError {
	if err == nil {
		return nil
	}

	// If it's already a ServiceError, just update the context
	if serviceErr, ok := err.(*ServiceError); ok {
		serviceErr.ServiceName = serviceName
		serviceErr.Operation = operation
		return serviceErr
	}

	return NewServiceError(category, code, err.Error(), serviceName, operation, retryable, err)
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error) bool {
	if serviceErr, ok := err.(*ServiceError); ok {
		return serviceErr.IsRetryable()
	}

	// Default heuristics for standard errors
	errorMsg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout", "connection refused", "connection reset",
		"temporary failure", "service unavailable", "too many requests",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errorMsg, pattern) {
			return true
		}
	}

	return false
}

// CategoryOf extracts the category of a wrapped service error, defaulting
// to processing for plain errors.
func CategoryOf(err error) ErrorCategory {
	if serviceErr, ok := err.(*ServiceError); ok {
		return serviceErr.Category
	}
	return ErrorCategoryProcessing
}

// ValidationError is a convenience constructor for request validation
// failures surfaced as 4xx responses.
func ValidationError(message, serviceName, operation string) *ServiceError {
	return NewServiceError(ErrorCategoryValidation, "INVALID_REQUEST", message, serviceName, operation, false, nil)
}

// ConfigurationError is a convenience constructor for missing-credential
// style failures surfaced as 5xx responses.
func ConfigurationError(message, serviceName string) *ServiceError {
	return NewServiceError(ErrorCategoryConfiguration, "MISSING_CONFIGURATION", message, serviceName, "configure", false, nil)
}

// UpstreamFormatError marks responses from the external model service that
// could not be used: non-JSON bodies or JSON missing required fields.
func UpstreamFormatError(message, serviceName, operation string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryUpstream, "UPSTREAM_FORMAT", message, serviceName, operation, false, cause)
}

// StorageCorruptionError marks persisted state that failed strict decoding.
func StorageCorruptionError(key string, cause error) *ServiceError {
	return NewServiceError(
		ErrorCategoryStorage,
		"STATE_CORRUPT",
		fmt.Sprintf("persisted state under key %q is corrupt: %v", key, cause),
		"SubmissionService",
		"load",
		false,
		cause,
	)
}
