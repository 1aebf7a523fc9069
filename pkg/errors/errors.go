package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network or HTTP-status errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeTimeout represents per-store deadline errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeValidation represents request validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeCurrency represents unsupported currency errors
	ErrorTypeCurrency ErrorType = "currency"
	// ErrorTypeInternal represents unanticipated internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// SearchError represents a store-scoped search error
type SearchError struct {
	Type    ErrorType
	Store   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Store, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Store, e.Message)
}

// Unwrap returns the underlying error
func (e *SearchError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *SearchError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

// New creates a new SearchError
func New(errType ErrorType, store, message string, err error) *SearchError {
	return &SearchError{
		Type:    errType,
		Store:   store,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(store, message string, err error) *SearchError {
	return New(ErrorTypeNetwork, store, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(store, message string, err error) *SearchError {
	return New(ErrorTypeParsing, store, message, err)
}

// NewTimeout creates a new timeout error
func NewTimeout(store string, timeout time.Duration) *SearchError {
	message := fmt.Sprintf("store did not respond within %v", timeout)
	return New(ErrorTypeTimeout, store, message, nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(store string, duration time.Duration) *SearchError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, store, message, nil)
}

// NewCache creates a new cache error
func NewCache(store, message string, err error) *SearchError {
	return New(ErrorTypeCache, store, message, err)
}

// NewValidation creates a new validation error
func NewValidation(message string) *SearchError {
	return New(ErrorTypeValidation, "", message, nil)
}

// NewCurrency creates a new unsupported currency error
func NewCurrency(from, to string) *SearchError {
	message := fmt.Sprintf("currency not supported: %s or %s", from, to)
	return New(ErrorTypeCurrency, "", message, nil)
}

// NewInternal creates a new internal error
func NewInternal(message string, err error) *SearchError {
	return New(ErrorTypeInternal, "", message, err)
}

// TypeOf returns the ErrorType of err if it is a SearchError,
// ErrorTypeInternal otherwise.
func TypeOf(err error) ErrorType {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Type
	}
	return ErrorTypeInternal
}
