package main

import (
	"os"

	"github.com/pablasso/sonda/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
