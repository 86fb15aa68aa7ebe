package main

import (
	"os"

	"github.com/rustyeddy/tradereport/cmd/tradereport/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
