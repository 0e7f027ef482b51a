//go:build ignore

/*
This program builds banktransferd
*/
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"os/exec"
)

var (
	verbose bool
	quiet   bool
	test    bool
	rebuild bool
	race    bool
)

var output bytes.Buffer

var installPkgs = []string{
	"github.com/fritzpay/banktransferd/cmd/banktransferd",
	"github.com/fritzpay/banktransferd/cmd/banktransferctl",
}

func main() {
	flag.BoolVar(&verbose, "v", false, "verbose output")
	flag.BoolVar(&quiet, "q", false, "do not print anything unless there is an error")
	flag.BoolVar(&test, "t", true, "execute tests before building")
	flag.BoolVar(&race, "race", false, "run the tests with the race detector")
	flag.BoolVar(&rebuild, "r", false, "force rebuilding binaries")
	flag.Parse()

	log.SetFlags(0)

	downloadDependencies()
	if test {
		runTests()
	}
	installBinaries()

	if !quiet {
		log.Print("Success.")
	}
}

func setCmdIO(cmd *exec.Cmd) {
	if quiet {
		cmd.Stdout = &output
		cmd.Stderr = &output
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
}

func downloadDependencies() {
	args := []string{
		"mod",
		"download",
	}
	if verbose {
		args = append(args, "-x")
		log.Print("downloading dependencies...")
	}
	cmd := exec.Command("go", args...)
	setCmdIO(cmd)
	if err := cmd.Run(); err != nil {
		log.Printf("error downloading dependencies: %v\n%s", err, output.String())
		os.Exit(1)
	}
}

func runTests() {
	cmds := [][]string{
		{
			"vet",
		},
		{
			"test",
		},
	}
	if verbose {
		log.Print("running tests...")
		cmds[0] = append(cmds[0], "-x")
		cmds[1] = append(cmds[1], "-v")
	}
	if race {
		cmds[1] = append(cmds[1], "-race")
	}
	for _, cArgs := range cmds {
		a := append(cArgs, "./...")
		cmd := exec.Command("go", a...)
		setCmdIO(cmd)
		if err := cmd.Run(); err != nil {
			log.Printf("error on tests: %v\n%s", err, output.String())
			os.Exit(2)
		}
	}
}

func installBinaries() {
	args := []string{
		"install",
	}
	if verbose {
		args = append(args, "-v", "-x")
	}
	if rebuild {
		args = append(args, "-a")
	}
	for _, install := range installPkgs {
		a := append(args, install)
		cmd := exec.Command("go", a...)
		setCmdIO(cmd)
		if err := cmd.Run(); err != nil {
			log.Printf("error building binary %s: %v\n%s", install, err, output.String())
			os.Exit(1)
		}
	}
}
