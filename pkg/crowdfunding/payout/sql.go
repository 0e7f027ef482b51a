package payout

import (
	"database/sql"
	"errors"
)

// ErrPayoutNotFound is returned when a project has no payout account
var ErrPayoutNotFound = errors.New("payout not found")

const selectPayoutByProjectID = `
SELECT
	id,
	project_id,
	iban,
	bank_account
FROM cffinance_payouts
WHERE
	project_id = ?
`

// PayoutByProjectIDDB selects the payout of a project and opens its IBAN
// with the given secret
func PayoutByProjectIDDB(db *sql.DB, projectID int64, secret string) (*Payout, error) {
	p := &Payout{}
	var iban, bankAccount sql.NullString
	err := db.QueryRow(selectPayoutByProjectID, projectID).Scan(
		&p.ID,
		&p.ProjectID,
		&iban,
		&bankAccount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	p.BankAccount = bankAccount.String
	if iban.String != "" {
		p.IBAN, err = Open(secret, iban.String)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Finder looks up payouts on a database
type Finder struct {
	DB     *sql.DB
	Secret string
}

func (f Finder) PayoutByProjectID(projectID int64) (*Payout, error) {
	return PayoutByProjectIDDB(f.DB, projectID, f.Secret)
}
