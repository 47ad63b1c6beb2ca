package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/fwmaker/cmd/fwmaker"
	"github.com/arthur-debert/fwmaker/internal/version"
)

func main() {
	rootCmd := fwmaker.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "FWMAKER",
		Section: "1",
		Source:  "fwmaker " + version.Version,
		Manual:  "fwmaker manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
