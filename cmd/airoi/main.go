package main

import (
	"os"

	"airoi/cmd/airoi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
