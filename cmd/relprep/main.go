package main

import (
	"os"

	"github.com/ariel-frischer/relprep/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
