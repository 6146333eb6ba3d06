// Package main provides the entry point for the spdash CLI.
package main

import (
	"errors"
	"os"

	"github.com/spdash/spdash/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			// Commands that already reported the problem leave the message empty
			if exitErr.Message != "" {
				os.Stderr.WriteString("Error: " + exitErr.Message + "\n")
			}
			os.Exit(exitErr.Code)
		}
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
