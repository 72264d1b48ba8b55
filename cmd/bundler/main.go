package main

import (
	"os"

	"github.com/garyjia/invoice-bundler/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
