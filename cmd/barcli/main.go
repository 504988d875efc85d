package main

import (
	"os"

	"github.com/MeKo-Tech/barcli/cmd/barcli/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args[1:], os.Stdout, os.Stderr))
}
