package main

import (
	"os"

	"github.com/joho/godotenv"

	astromcpcmder "github.com/celestio/astromcp/cmd/astromcp"
)

func main() {
	// Local development convenience; deployments set real env vars.
	_ = godotenv.Load()

	cmd := astromcpcmder.NewAstromcpCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
