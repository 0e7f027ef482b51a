package session

import (
	"database/sql"
	"errors"
)

var (
	// ErrPaymentSessionNotFound is returned when no payment session exists for
	// the requested session id
	ErrPaymentSessionNotFound = errors.New("payment session not found")
)

const selectPaymentSessionBySessionID = `
SELECT
	id,
	user_id,
	auser_id,
	project_id,
	reward_id,
	session_id,
	gateway,
	record_date
FROM crowdf_payment_sessions
WHERE
	session_id = ?
`

// PaymentSessionBySessionIDDB selects the payment session with the given session id
func PaymentSessionBySessionIDDB(db *sql.DB, sessionID string) (*PaymentSession, error) {
	s := &PaymentSession{}
	var rewardID sql.NullInt64
	var gateway sql.NullString
	err := db.QueryRow(selectPaymentSessionBySessionID, sessionID).Scan(
		&s.ID,
		&s.UserID,
		&s.AnonymousUserID,
		&s.ProjectID,
		&rewardID,
		&s.SessionID,
		&gateway,
		&s.Created,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentSessionNotFound
		}
		return nil, err
	}
	s.RewardID, s.Gateway = rewardID.Int64, gateway.String
	return s, nil
}

const deletePaymentSession = `
DELETE FROM crowdf_payment_sessions
WHERE
	id = ?
`

// DeletePaymentSessionDB removes the payment session with the given id
//
// Returns ErrPaymentSessionNotFound if there was nothing to delete.
func DeletePaymentSessionDB(db *sql.DB, id int64) error {
	res, err := db.Exec(deletePaymentSession, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentSessionNotFound
	}
	return nil
}
