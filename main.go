package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tierdesk/internal/cli"
)

func main() {
	// Best-effort .env load for local development; deployments use real env vars.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
