package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evolve-cli",
	Short: "Evolutionary optimization of text candidates",
	Long: `A command-line interface for the evolve-go engine: island-based
evolutionary search over text candidates with checkpoint/resume support.

Commands emit a single JSON document on stdout so the tool can be driven by
other processes; logs go to stderr.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
