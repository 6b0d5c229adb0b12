package main

import (
	"os"

	"github.com/Pavlentiyys/digitalFest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
