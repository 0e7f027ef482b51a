package main

import (
	"fmt"

	"github.com/codegangsta/cli"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
)

var txnIDCommand = cli.Command{
	Name:  "txnid",
	Usage: "Generate transaction ids with the configured prefix.",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count, n",
			Value: 1,
			Usage: "Number of ids to generate.",
		},
	},
	Action: txnIDAction,
}

func txnIDAction(c *cli.Context) error {
	if !readConfig(c) {
		return nil
	}
	gen := transaction.NewTxnIDGenerator(nil, cfg.BankTransfer.TxnIDPrefix)
	for i := 0; i < c.Int("count"); i++ {
		id, err := gen.Generate()
		if err != nil {
			fmt.Fprintf(out(c), "error generating transaction id: %v\n", err)
			return nil
		}
		fmt.Fprintln(out(c), id)
	}
	return nil
}
