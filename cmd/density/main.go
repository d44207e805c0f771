// Package main provides density, a CLI for the chameleon/cheetah/copy
// streaming block-compression codec family.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/calvinalkan/density/internal/cli"
)

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, sigCh)

	os.Exit(exitCode)
}
