// Package service provides business logic for the application.
package service

import "errors"

// Service errors.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrClientNotFound     = errors.New("client not found")
	ErrClientHasInvoices  = errors.New("client has invoices")
	ErrInvalidClient      = errors.New("client does not exist")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvoiceNumberTaken = errors.New("invoice number already exists")
)

// ValidationError reports the first input rule that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
