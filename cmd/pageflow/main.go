package main

import (
	"os"

	"github.com/fjglira/GoE2E-PageFlow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
