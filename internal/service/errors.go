package service

import "fmt"

// ServiceError wraps an unexpected failure inside a service operation.
// Expected conditions (not found, duplicates, foreign tags) surface as the
// store sentinels instead, so callers check those with errors.Is and the API
// layer maps them to status codes.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newBookmarkServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "bookmark", Operation: operation, Message: message, Err: err}
}

func newTagServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "tag", Operation: operation, Message: message, Err: err}
}
