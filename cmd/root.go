// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dossierkit",
	Short: "A CLI tool to build and score GitHub contributor dossiers.",
	Long: `dossierkit assembles a contributor "dossier" for one GitHub repository
(account profile, in-repo commits, pull requests and reviews), computes a
normalized contributor score from it, and can forward pull-request actions
(merge, close, review, comment, file edits, branch updates) to GitHub.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// commandLogger builds the logger shared by all commands: silent by default,
// standard error when --verbose is set.
func commandLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
