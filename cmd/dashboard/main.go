package main

import (
	"os"

	"github.com/Shirsha07/nifty-200-dashboard/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
