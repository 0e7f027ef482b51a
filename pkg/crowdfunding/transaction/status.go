package transaction

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// Status is the status of a transaction
//
// The zero value StatusNone stands for a transaction which was not stored yet.
type Status uint8

const (
	StatusNone Status = iota
	StatusPending
	StatusCompleted
)

var (
	ErrInvalidStatus     = errors.New("invalid transaction status")
	ErrInvalidTransition = errors.New("invalid transaction status transition")
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	default:
		return "invalid"
	}
}

// ParseStatus parses the stored representation of a status
func ParseStatus(str string) (Status, error) {
	switch str {
	case "":
		return StatusNone, nil
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return StatusNone, fmt.Errorf("%w: %q", ErrInvalidStatus, str)
	}
}

// Scan implements the Scanner interface for sql
func (s *Status) Scan(v interface{}) error {
	var err error
	switch src := v.(type) {
	case nil:
		*s = StatusNone
	case []byte:
		*s, err = ParseStatus(string(src))
	case string:
		*s, err = ParseStatus(src)
	default:
		err = fmt.Errorf("cannot scan %T into %T", v, s)
	}
	return err
}

// Value implements the Valuer interface for sql
//
// StatusNone is stored as NULL.
func (s Status) Value() (driver.Value, error) {
	switch s {
	case StatusNone:
		return nil, nil
	case StatusPending, StatusCompleted:
		return s.String(), nil
	default:
		return nil, ErrInvalidStatus
	}
}

// TransitionOptions describes a status change of a transaction
type TransitionOptions struct {
	Old Status
	New Status
}

// Transition returns nil if a transaction may change from status from to status to
//
//	none    -> pending | completed
//	pending -> completed
func Transition(from, to Status) error {
	switch from {
	case StatusNone:
		if to == StatusPending || to == StatusCompleted {
			return nil
		}
	case StatusPending:
		if to == StatusCompleted {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// InitialStatus returns the status of a new bank transfer transaction
func InitialStatus(autoComplete bool) Status {
	if autoComplete {
		return StatusCompleted
	}
	return StatusPending
}
