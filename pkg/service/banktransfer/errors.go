package banktransfer

import (
	"errors"
	"fmt"
)

type errorID int

func (e errorID) Error() string {
	switch e {
	case ErrInvalidProject:
		return "invalid project"
	case ErrInvalidSession:
		return "invalid payment session"
	case ErrTransactionPersist:
		return "could not persist transaction"
	case ErrBeneficiaryConfig:
		return "beneficiary not configured"
	case ErrInvalidCurrency:
		return "invalid project currency"
	case ErrUnsupportedContext:
		return "unsupported context"
	case ErrInternal:
		return "internal error"
	default:
		return "unknown error"
	}
}

const (
	// project not found or without id
	ErrInvalidProject errorID = iota
	// payment session not found or without id
	ErrInvalidSession
	// the transaction could not be stored
	ErrTransactionPersist
	// no beneficiary account available
	ErrBeneficiaryConfig
	// project currency not found
	ErrInvalidCurrency
	// the trigger context is not handled by the bank transfer method
	ErrUnsupportedContext
	// internal error
	ErrInternal
)

// TransactionPersistError is returned when storing a transaction failed
//
// It matches ErrTransactionPersist with errors.Is and carries the cause.
type TransactionPersistError struct {
	Err error
}

func (e *TransactionPersistError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransactionPersist, e.Err)
}

func (e *TransactionPersistError) Unwrap() error {
	return e.Err
}

func (e *TransactionPersistError) Is(target error) bool {
	return target == ErrTransactionPersist
}

// kindError attaches a cause to an error kind
type kindError struct {
	kind  errorID
	cause error
}

func (e kindError) Error() string {
	return fmt.Sprintf("%s: %v", e.kind, e.cause)
}

func (e kindError) Is(target error) bool {
	return target == e.kind
}

func (e kindError) Unwrap() error {
	return e.cause
}

func wrapKind(kind errorID, cause error) error {
	if cause == nil {
		return kind
	}
	return kindError{kind: kind, cause: cause}
}

// Kind returns the error kind of err or ErrInternal if err carries none
func Kind(err error) error {
	var id errorID
	if errors.As(err, &id) {
		return id
	}
	var ke kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	if errors.Is(err, ErrTransactionPersist) {
		return ErrTransactionPersist
	}
	return ErrInternal
}
