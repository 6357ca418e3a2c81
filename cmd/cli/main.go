package main

import (
	"os"

	"github.com/matheus05dev/mindforge-front-sub001/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
