package currency

import (
	"database/sql"
	"errors"
)

var (
	// ErrCurrencyNotFound is an error which various select methods will return
	// if the requested currency was not found
	ErrCurrencyNotFound = errors.New("currency not found")
)

const selectCurrency = `
SELECT
	id,
	title,
	code,
	symbol,
	position
FROM crowdf_currencies
`

const selectCurrencyByCode = selectCurrency + `
WHERE
	code = ?
`

func scanCurrency(row *sql.Row) (Currency, error) {
	c := Currency{}
	err := row.Scan(&c.ID, &c.Title, &c.Code, &c.Symbol, &c.Position)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, ErrCurrencyNotFound
		}
		return c, err
	}
	c.Code = NormalizeCode(c.Code)
	return c, nil
}

// CurrencyByCodeDB selects a currency by the given code
//
// If no such currency exists, it will return an empty currency
func CurrencyByCodeDB(db *sql.DB, code string) (Currency, error) {
	row := db.QueryRow(selectCurrencyByCode, NormalizeCode(code))
	return scanCurrency(row)
}

// Finder looks up currencies in the crowdfunding DB
type Finder struct {
	DB *sql.DB
}

func (f Finder) CurrencyByCode(code string) (Currency, error) {
	return CurrencyByCodeDB(f.DB, code)
}
