package main

import (
	"os"

	"github.com/ariel-frischer/bumpversion/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
