// Command cskin is the entry point for the C-Skin skin disease consultation
// assistant. It provides a CLI interface (via Cobra) and an HTTP server that
// exposes the consultation API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cskinhq/cskin-go/cmd/cskin/commands"
)

func main() {
	// Load .env if present. Missing file is not an error.
	_ = godotenv.Load()

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
