package transaction

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrTransactionNotFound is returned when the requested transaction does not exist
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrDuplicateTxnID is returned when the txn id of a new transaction is already taken
	ErrDuplicateTxnID = errors.New("duplicate transaction id")
)

// MySQL Error 1062 SQLSTATE: 23000 (ER_DUP_ENTRY)
const mysqlErrDupEntry = 1062

const selectTransaction = `
SELECT
	id,
	investor_id,
	receiver_id,
	project_id,
	reward_id,
	service_provider,
	service_alias,
	txn_id,
	txn_amount,
	txn_currency,
	txn_status,
	txn_date
FROM crowdf_transactions
`

const selectTransactionByTxnID = selectTransaction + `
WHERE
	txn_id = ?
`

func scanTransaction(row *sql.Row) (*Transaction, error) {
	t := &Transaction{}
	err := row.Scan(
		&t.ID,
		&t.InvestorID,
		&t.ReceiverID,
		&t.ProjectID,
		&t.RewardID,
		&t.ServiceProvider,
		&t.ServiceAlias,
		&t.TxnID,
		&t.Amount,
		&t.Currency,
		&t.Status,
		&t.Created,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

// TransactionByTxnIDDB selects a transaction by its txn id
func TransactionByTxnIDDB(db *sql.DB, txnID string) (*Transaction, error) {
	return scanTransaction(db.QueryRow(selectTransactionByTxnID, txnID))
}

// TransactionByTxnIDTx selects a transaction by its txn id inside the DB transaction
func TransactionByTxnIDTx(db *sql.Tx, txnID string) (*Transaction, error) {
	return scanTransaction(db.QueryRow(selectTransactionByTxnID, txnID))
}

const insertTransaction = `
INSERT INTO crowdf_transactions
(investor_id, receiver_id, project_id, reward_id, service_provider, service_alias, txn_id, txn_amount, txn_currency, txn_status, txn_date)
VALUES
(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertTransactionTx inserts a transaction
//
// This will modify the given transaction, setting the ID field.
func InsertTransactionTx(db *sql.Tx, t *Transaction) error {
	stmt, err := db.Prepare(insertTransaction)
	if err != nil {
		return err
	}
	res, err := stmt.Exec(
		t.InvestorID,
		t.ReceiverID,
		t.ProjectID,
		t.RewardID,
		t.ServiceProvider,
		t.ServiceAlias,
		t.TxnID,
		t.Amount,
		t.Currency,
		t.Status,
		t.Created,
	)
	stmt.Close()
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == mysqlErrDupEntry {
			return ErrDuplicateTxnID
		}
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

const updateTransactionStatus = `
UPDATE crowdf_transactions SET
	txn_status = ?
WHERE
	id = ?
`

const updateRewardDistributed = `
UPDATE crowdf_rewards SET
	distributed = distributed + 1
WHERE
	id = ?
	AND
	project_id = ?
`

const updateProjectFunds = `
UPDATE crowdf_projects SET
	funded = funded + ?
WHERE
	id = ?
`

// ProcessTx stores the status change described by opts
//
// A transaction without previous status is inserted and counts as a
// distributed reward. Reaching the completed status adds the amount to the
// funds of the project. All changes happen on the given (SQL-)transaction.
func ProcessTx(db *sql.Tx, t *Transaction, opts TransitionOptions) error {
	if err := Transition(opts.Old, opts.New); err != nil {
		return err
	}
	t.Status = opts.New
	var err error
	if opts.Old == StatusNone {
		err = InsertTransactionTx(db, t)
		if err != nil {
			return err
		}
		if t.RewardID != 0 {
			_, err = db.Exec(updateRewardDistributed, t.RewardID, t.ProjectID)
			if err != nil {
				return err
			}
		}
	} else {
		_, err = db.Exec(updateTransactionStatus, t.Status, t.ID)
		if err != nil {
			return err
		}
	}
	if opts.New == StatusCompleted {
		_, err = db.Exec(updateProjectFunds, t.Amount, t.ProjectID)
		if err != nil {
			return err
		}
	}
	return nil
}

// CompleteTx marks the pending transaction with the given txn id as completed
//
// The project funds are raised by the transaction amount.
func CompleteTx(db *sql.Tx, txnID string) (*Transaction, error) {
	t, err := TransactionByTxnIDTx(db, txnID)
	if err != nil {
		return nil, err
	}
	err = ProcessTx(db, t, TransitionOptions{Old: t.Status, New: StatusCompleted})
	if err != nil {
		return nil, err
	}
	return t, nil
}
