package session

import (
	"database/sql"

	"github.com/fritzpay/banktransferd/pkg/userstate"
	"golang.org/x/net/context"
)

// Store resolves payment sessions through the user state of a visitor
//
// The payment wizard leaves the session id of the payment session in the user
// state of the visitor, keyed by the project.
type Store struct {
	db    *sql.DB
	state userstate.Store
}

func NewStore(db *sql.DB, state userstate.Store) *Store {
	return &Store{db: db, state: state}
}

// PaymentSession returns the payment session the visitor selected for the project
func (s *Store) PaymentSession(ctx context.Context, visitor string, projectID int64) (*PaymentSession, error) {
	sessionID, err := s.state.Get(ctx, visitor, userstate.PaymentSessionKey(projectID))
	if err != nil {
		if err == userstate.ErrNotFound {
			return nil, ErrPaymentSessionNotFound
		}
		return nil, err
	}
	if sessionID == "" {
		return nil, ErrPaymentSessionNotFound
	}
	ps, err := PaymentSessionBySessionIDDB(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if ps.ProjectID != projectID {
		return nil, ErrPaymentSessionNotFound
	}
	return ps, nil
}

// Invalidate removes the payment session so it cannot be used for another transaction
func (s *Store) Invalidate(ctx context.Context, ps *PaymentSession) error {
	return DeletePaymentSessionDB(s.db, ps.ID)
}
