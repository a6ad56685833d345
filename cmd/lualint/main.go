package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lualint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lualint",
	Short: "Lint Lua sources for undeclared globals",
	Long:  `lualint scans luac instruction listings and reports reads and writes of globals that were never declared`,
}

// exitStatus carries the check outcome so warnings can pick the exit
// code without aborting cobra early.
var exitStatus int

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitStatus)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
