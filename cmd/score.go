// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dossierkit/dossierkit/internal/domain"
	"github.com/dossierkit/dossierkit/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Scores a contributor snapshot offline and outputs as JSON",
	Long: `Reads a ContributorSnapshot in JSON form from a file (or standard input
when --file is "-"), runs the scoring model without touching the network, and
prints the resulting score in JSON format. The reference instant used for
account-age normalization can be pinned with --at for reproducible output.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		atStr, _ := cmd.Flags().GetString("at")

		at := time.Now().UTC()
		if atStr != "" {
			parsed, err := time.Parse(time.RFC3339, atStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --at instant. Please use RFC3339, e.g. 2025-06-01T12:00:00Z. Error: %v\n", err)
				os.Exit(1)
			}
			at = parsed
		}

		var reader io.Reader = os.Stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open snapshot file: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			reader = f
		}

		var snapshot domain.ContributorSnapshot
		if err := json.NewDecoder(reader).Decode(&snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to decode snapshot JSON: %v\n", err)
			os.Exit(1)
		}

		score := scoring.Compute(snapshot, at)

		jsonData, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal score to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringP("file", "f", "-", `Snapshot JSON file ("-" reads standard input)`)
	scoreCmd.Flags().String("at", "", "Reference instant for account-age normalization (RFC3339, default now)")
}
