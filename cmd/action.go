// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dossierkit/dossierkit/internal/cache"
	"github.com/dossierkit/dossierkit/internal/gateway"
	"github.com/dossierkit/dossierkit/internal/usecase"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Forwards a pull-request action to GitHub",
	Long: `Forwards a single pull-request action to GitHub and invalidates the
affected cache scopes afterwards. Supported kinds: merge, close, approve,
request-changes, comment, edit-file, update-branch.

The --body flag carries the merge commit message, review body or comment
text depending on the kind. edit-file additionally takes --path, --branch,
--content-file and --sha.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := commandLogger(cmd)

		kind, _ := cmd.Flags().GetString("kind")
		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")
		number, _ := cmd.Flags().GetInt("number")
		body, _ := cmd.Flags().GetString("body")
		path, _ := cmd.Flags().GetString("path")
		branch, _ := cmd.Flags().GetString("branch")
		contentFile, _ := cmd.Flags().GetString("content-file")
		sha, _ := cmd.Flags().GetString("sha")

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		var content []byte
		if contentFile != "" {
			data, err := os.ReadFile(contentFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to read --content-file: %v\n", err)
				os.Exit(1)
			}
			content = data
		}

		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		dispatcher := usecase.NewActionDispatcher(githubGateway, cache.New(time.Minute), logger)

		req := usecase.ActionRequest{
			Kind:    usecase.ActionKind(kind),
			Owner:   owner,
			Repo:    repo,
			Number:  number,
			Body:    body,
			Path:    path,
			Branch:  branch,
			Content: content,
			SHA:     sha,
		}
		if err := dispatcher.Dispatch(ctx, req); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to dispatch action: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s completed for %s/%s#%d\n", kind, owner, repo, number)
	},
}

func init() {
	rootCmd.AddCommand(actionCmd)
	actionCmd.Flags().StringP("kind", "k", "", "Action kind (required)")
	actionCmd.Flags().StringP("owner", "o", "", "Repository owner (required)")
	actionCmd.Flags().StringP("repo", "r", "", "Repository name (required)")
	actionCmd.Flags().IntP("number", "n", 0, "Pull request number")
	actionCmd.Flags().StringP("body", "b", "", "Commit message, review body or comment text")
	actionCmd.Flags().String("path", "", "File path (edit-file only)")
	actionCmd.Flags().String("branch", "", "Branch to commit to (edit-file only)")
	actionCmd.Flags().String("content-file", "", "Local file holding the new contents (edit-file only)")
	actionCmd.Flags().String("sha", "", "Blob SHA being replaced (edit-file only)")
	actionCmd.MarkFlagRequired("kind")
	actionCmd.MarkFlagRequired("owner")
	actionCmd.MarkFlagRequired("repo")
}
