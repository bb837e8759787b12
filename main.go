package main

import (
	"os"

	"github.com/signalnine/tonebench/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
