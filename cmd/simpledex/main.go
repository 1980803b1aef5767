package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bimakw/simple-dex/internal/cli"
)

const version = "0.3.0"

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
