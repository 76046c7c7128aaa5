// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dossierkit/dossierkit/internal/cache"
	"github.com/dossierkit/dossierkit/internal/gateway"
	"github.com/dossierkit/dossierkit/internal/usecase"
)

// dossierCacheTTL bounds how long an assembled dossier stays fresh within
// one process.
const dossierCacheTTL = 15 * time.Minute

var dossierCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Builds and scores a contributor dossier, output as JSON",
	Long: `Builds a contributor dossier for a specified GitHub user and repository:
account profile, in-repo commit count, authored pull requests, review count,
most-starred repositories and org membership, assembled concurrently and fed
through the scoring model. The result is printed in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := commandLogger(cmd)

		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")
		user, _ := cmd.Flags().GetString("user")
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		builder := usecase.NewDossierBuilder(githubGateway, cache.New(dossierCacheTTL), logger)

		dossier, err := builder.Build(ctx, owner, repo, user, time.Now().UTC())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build dossier: %v\n", err)
			os.Exit(1)
		}

		jsonData, err := json.MarshalIndent(dossier, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal dossier to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(dossierCmd)
	dossierCmd.PersistentFlags().StringP("owner", "o", "", "Repository owner (user or organization, required)")
	dossierCmd.PersistentFlags().StringP("repo", "r", "", "Repository name (required)")
	dossierCmd.PersistentFlags().StringP("user", "u", "", "Contributor login to profile (required)")
	dossierCmd.MarkPersistentFlagRequired("owner")
	dossierCmd.MarkPersistentFlagRequired("repo")
	dossierCmd.MarkPersistentFlagRequired("user")
}
