package main

import (
	"os"

	"github.com/modu-ai/license/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
