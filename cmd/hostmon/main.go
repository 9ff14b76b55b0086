package main

import (
	"os"

	"probe-go/internal/cli"
	"probe-go/pkg/log"
)

// VERSION is set at build time with -ldflags "-X main.VERSION=...".
var VERSION = "0.1.0"

func main() {
	log.InitLogger(os.Stderr)
	os.Exit(cli.Execute(newRootCmd()))
}
