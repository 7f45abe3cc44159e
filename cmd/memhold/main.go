package main

import (
	"os"

	"mosn.io/memhold/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
