package main

import (
	"fmt"

	"github.com/codegangsta/cli"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/payout"
)

var payoutCommand = cli.Command{
	Name:  "payout",
	Usage: "Seal and open project owner payout data.",
	Subcommands: []cli.Command{
		{
			Name:      "seal",
			Usage:     "Seal an IBAN for storing it in the payouts table.",
			ArgsUsage: "IBAN",
			Flags:     []cli.Flag{secretFlag},
			Action:    sealPayoutAction,
		},
		{
			Name:      "open",
			Usage:     "Open a sealed payout value.",
			ArgsUsage: "SEALED",
			Flags:     []cli.Flag{secretFlag},
			Action:    openPayoutAction,
		},
	},
}

var secretFlag = cli.StringFlag{
	Name:   "secret, s",
	Usage:  "Secret to use. Defaults to BankTransfer.Secret of the config.",
	EnvVar: "BANKTRANSFERD_SECRET",
}

func payoutSecret(c *cli.Context) (string, bool) {
	if s := c.String("secret"); s != "" {
		return s, true
	}
	if !readConfig(c) {
		return "", false
	}
	if cfg.BankTransfer.Secret == "" {
		fmt.Fprintln(out(c), "no secret provided and BankTransfer.Secret is empty.")
		return "", false
	}
	return cfg.BankTransfer.Secret, true
}

func sealPayoutAction(c *cli.Context) error {
	if c.NArg() != 1 {
		fmt.Fprint(out(c), "expected exactly one IBAN\n\n")
		return cli.ShowCommandHelp(c, "seal")
	}
	secret, ok := payoutSecret(c)
	if !ok {
		return nil
	}
	sealed, err := payout.Seal(secret, c.Args().First())
	if err != nil {
		fmt.Fprintf(out(c), "error sealing value: %v\n", err)
		return nil
	}
	fmt.Fprintln(out(c), sealed)
	return nil
}

func openPayoutAction(c *cli.Context) error {
	if c.NArg() != 1 {
		fmt.Fprint(out(c), "expected exactly one sealed value\n\n")
		return cli.ShowCommandHelp(c, "open")
	}
	secret, ok := payoutSecret(c)
	if !ok {
		return nil
	}
	plain, err := payout.Open(secret, c.Args().First())
	if err != nil {
		fmt.Fprintf(out(c), "error opening value: %v\n", err)
		return nil
	}
	fmt.Fprintln(out(c), plain)
	return nil
}
