package main

import (
	"os"

	"github.com/arthur-debert/fwmaker/cmd/fwmaker"
)

func main() {
	os.Exit(fwmaker.Execute())
}
