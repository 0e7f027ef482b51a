package main

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/codegangsta/cli"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
	_ "github.com/go-sql-driver/mysql"
)

var transactionCommand = cli.Command{
	Name:    "transaction",
	Aliases: []string{"txn"},
	Usage:   "Inspect and complete bank transfer transactions.",
	Subcommands: []cli.Command{
		{
			Name:      "show",
			Usage:     "Show the transaction with the given txn id.",
			ArgsUsage: "TXNID",
			Action:    showTransactionAction,
		},
		{
			Name:      "complete",
			Usage:     "Mark a pending transaction as completed once the transfer arrived.",
			ArgsUsage: "TXNID",
			Action:    completeTransactionAction,
		},
	},
}

// openDB connects to the crowdfunding DB
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

func crowdfundingDB(c *cli.Context) (*sql.DB, bool) {
	if !readConfig(c) {
		return nil, false
	}
	if cfg.Database.Write == "" {
		fmt.Fprintln(out(c), "Database.Write is empty.")
		return nil, false
	}
	db, err := openDB(cfg.Database.Write)
	if err != nil {
		fmt.Fprintf(out(c), "error opening crowdfunding DB: %v\n", err)
		return nil, false
	}
	return db, true
}

func printTransaction(w io.Writer, t *transaction.Transaction) {
	fmt.Fprintf(w, "txn id:    %s\n", t.TxnID)
	fmt.Fprintf(w, "status:    %s\n", t.Status)
	fmt.Fprintf(w, "amount:    %s %s\n", t.Amount.StringFixed(2), t.Currency)
	fmt.Fprintf(w, "project:   %d\n", t.ProjectID)
	fmt.Fprintf(w, "reward:    %d\n", t.RewardID)
	fmt.Fprintf(w, "investor:  %d\n", t.InvestorID)
	fmt.Fprintf(w, "created:   %s\n", t.Created.Format("2006-01-02 15:04:05"))
}

func showTransactionAction(c *cli.Context) error {
	if c.NArg() != 1 {
		fmt.Fprint(out(c), "expected exactly one txn id\n\n")
		return cli.ShowCommandHelp(c, "show")
	}
	db, ok := crowdfundingDB(c)
	if !ok {
		return nil
	}
	defer db.Close()
	t, err := transaction.TransactionByTxnIDDB(db, c.Args().First())
	if err != nil {
		fmt.Fprintf(out(c), "error selecting transaction: %v\n", err)
		return nil
	}
	printTransaction(out(c), t)
	return nil
}

func completeTransactionAction(c *cli.Context) error {
	if c.NArg() != 1 {
		fmt.Fprint(out(c), "expected exactly one txn id\n\n")
		return cli.ShowCommandHelp(c, "complete")
	}
	db, ok := crowdfundingDB(c)
	if !ok {
		return nil
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		fmt.Fprintf(out(c), "error beginning DB transaction: %v\n", err)
		return nil
	}
	var commit bool
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()
	t, err := transaction.CompleteTx(tx, c.Args().First())
	if err != nil {
		fmt.Fprintf(out(c), "error completing transaction: %v\n", err)
		return nil
	}
	err = tx.Commit()
	if err != nil {
		fmt.Fprintf(out(c), "error on commit: %v\n", err)
		return nil
	}
	commit = true
	printTransaction(out(c), t)
	return nil
}
