package main

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/codegangsta/cli"
	"github.com/fritzpay/banktransferd/pkg/config"
)

const cfgCommandDescription = `This command allows you to load, modify and test configuration 
files.`

var cfg = config.DefaultConfig()

var configCommand = cli.Command{
	Name:        "config",
	Aliases:     []string{"cfg"},
	Usage:       "Configuration related tools.",
	Description: cfgCommandDescription,
	Subcommands: []cli.Command{
		testConfigComand,
		writeConfigCommand,
	},
}

var testConfigComand = cli.Command{
	Name:    "test",
	Aliases: []string{"t"},
	Usage:   "Test configuration.",
	Action:  testConfigAction,
}

func out(c *cli.Context) io.Writer {
	return c.App.Writer
}

func configFileName(c *cli.Context) string {
	return c.GlobalString("config")
}

func readConfig(c *cli.Context) bool {
	if configFileName(c) != "" {
		if !readConfigFile(out(c), configFileName(c)) {
			return false
		}
	} else {
		fmt.Fprintln(out(c), "no config file flag provided. will use default config...")
	}
	return true
}

func readConfigFile(w io.Writer, cfgFileName string) bool {
	fmt.Fprintf(w, "will read config file %s...\n", cfgFileName)
	cfgFile, err := os.Open(cfgFileName)
	if err != nil {
		fmt.Fprintf(w, "error opening config file %s: %v\n", cfgFileName, err)
		return false
	}
	defer cfgFile.Close()
	cfg, err = config.ReadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(w, "error reading config file %s: %v\n", cfgFileName, err)
		return false
	}
	return true
}

func testServiceAddress(w io.Writer, name string, svc config.ServiceConfig) int {
	if svc.Address == "" {
		fmt.Fprintf(w, "error: %s.Address is empty.\n", name)
		return 1
	}
	addr, err := net.ResolveTCPAddr("tcp", svc.Address)
	if err != nil {
		fmt.Fprintf(w, "error: %s.Address could not be resolved: %v\n", name, err)
		return 1
	}
	fmt.Fprintf(w, "%s.Address: server will use network %s and address %s\n", name, addr.Network(), addr.String())
	errors := 0
	if _, err = svc.ReadTimeout.Duration(); err != nil {
		errors++
		fmt.Fprintf(w, "error: %s.ReadTimeout: %v\n", name, err)
	}
	if _, err = svc.WriteTimeout.Duration(); err != nil {
		errors++
		fmt.Fprintf(w, "error: %s.WriteTimeout: %v\n", name, err)
	}
	return errors
}

func testConfigAction(c *cli.Context) error {
	if !readConfig(c) {
		return nil
	}
	w := out(c)

	errors := 0
	warnings := 0

	if err := cfg.Validate(); err != nil {
		errors++
		fmt.Fprintf(w, "error: %v\n", err)
	}
	errors += testServiceAddress(w, "Web.Service", cfg.Web.Service)
	if cfg.Metrics.Active {
		errors += testServiceAddress(w, "Metrics.Service", cfg.Metrics.Service)
	}
	if cfg.Mail.SMTPAddress == "" {
		warnings++
		fmt.Fprintln(w, "warning: Mail.SMTPAddress is empty. no emails will be sent.")
	}
	if cfg.BankTransfer.PaymentReceiver == config.ReceiverProjectOwner {
		if !cfg.BankTransfer.FinanceEnabled {
			warnings++
			fmt.Fprintln(w, "warning: project owner receives payments but BankTransfer.FinanceEnabled is not set.")
		}
		if cfg.BankTransfer.Secret == "" {
			warnings++
			fmt.Fprintln(w, "warning: BankTransfer.Secret is empty. payout data cannot be opened.")
		}
	}

	fmt.Fprintf(w, "\n\nconfig testing complete.\n%d errors and %d warnings.\n", errors, warnings)
	return nil
}

var writeConfigCommand = cli.Command{
	Name:    "write",
	Aliases: []string{"w"},
	Usage:   "Will write the config in buffer to the given output file.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "output, o",
			Usage: "Output file to write to.",
		},
	},
	Action: writeConfigAction,
}

func writeConfigAction(c *cli.Context) error {
	w := out(c)
	cfgFileName := c.String("output")
	if cfgFileName == "" {
		fmt.Fprint(w, "no output file name provided\n\n")
		return cli.ShowCommandHelp(c, "w")
	}

	if !readConfig(c) {
		return nil
	}
	cfgFile, err := os.OpenFile(cfgFileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0600)
	if err != nil {
		fmt.Fprintf(w, "error opening config file %s for writing: %v\n", cfgFileName, err)
		return nil
	}
	defer cfgFile.Close()
	err = config.WriteConfig(cfgFile, cfg)
	if err != nil {
		fmt.Fprintf(w, "error writing config file %s: %v\n", cfgFileName, err)
		return nil
	}
	fmt.Fprintf(w, "config file %s written.\n", cfgFileName)
	return nil
}
