// Package userstate keeps per-visitor state between requests, such as the
// payment session a visitor selected for a project.
package userstate

import (
	"errors"
	"strconv"

	"golang.org/x/net/context"
)

const (
	// AnonymousUserKey holds the hash of an anonymous backer
	AnonymousUserKey = "auser_id"

	paymentSessionKeyPrefix = "crowdfunding.payment.session."
)

var (
	// ErrNotFound is returned when the visitor has no value for the requested key
	ErrNotFound = errors.New("user state not found")
)

// Store is implemented by user state backends
type Store interface {
	Get(ctx context.Context, visitor, key string) (string, error)
	Set(ctx context.Context, visitor, key, value string) error
	Delete(ctx context.Context, visitor, key string) error
}

// PaymentSessionKey returns the key under which the payment session id of the
// given project is kept
func PaymentSessionKey(projectID int64) string {
	return paymentSessionKeyPrefix + strconv.FormatInt(projectID, 10)
}
