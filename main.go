package main

import (
	"os"

	"KisanGPT/app/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
