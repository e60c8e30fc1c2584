// Package businessflow contains the core business logic and use cases for tariff workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Tariff-related errors
	ErrTariffNotFound   = errors.New("tariff not found")
	ErrNoMatchingTariff = errors.New("no tariff matches the given date and cargo type")
	ErrInvalidJSONFile  = errors.New("invalid JSON file")
	ErrNoUpdateFields   = errors.New("at least one field must be provided for update")

	// Publish-related errors
	ErrProducerNotAvailable = errors.New("message producer not available")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error with a stable code
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsBusinessError reports whether err carries a business error code
func IsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
