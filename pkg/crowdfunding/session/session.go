package session

import (
	"time"
)

// PaymentSession captures the checkout choices of a backer for one project
//
// It is created by the payment wizard and consumed by the transaction which
// is recorded for it.
type PaymentSession struct {
	ID              int64
	UserID          int64
	AnonymousUserID string
	ProjectID       int64
	RewardID        int64
	SessionID       string
	Gateway         string
	Created         time.Time
}

// IsAnonymous returns true if the backer is not a registered user
//
// Anonymous backers cannot select rewards.
func (s PaymentSession) IsAnonymous() bool {
	return s.UserID == 0
}
