package main

import (
	"alcyxob/liftplan/internal/cli"
	"os"
)

func main() {
	os.Exit(cli.Execute())
}
