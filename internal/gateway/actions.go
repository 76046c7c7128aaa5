package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v62/github"
)

// Actor defines the write side of the gateway: each method is a thin
// translation of one user action into the corresponding GitHub REST call.
type Actor interface {
	MergePullRequest(ctx context.Context, owner, repo string, number int, commitMessage string) error
	ClosePullRequest(ctx context.Context, owner, repo string, number int) error
	SubmitReview(ctx context.Context, owner, repo string, number int, event, body string) error
	AddComment(ctx context.Context, owner, repo string, number int, body string) error
	UpdateFileContents(ctx context.Context, owner, repo, path, message, branch string, content []byte, sha string) error
	UpdateBranch(ctx context.Context, owner, repo string, number int) error
}

// Review events accepted by SubmitReview, mirroring the GitHub API enum.
const (
	ReviewApprove        = "APPROVE"
	ReviewRequestChanges = "REQUEST_CHANGES"
	ReviewComment        = "COMMENT"
)

// MergePullRequest merges the pull request with the given commit message.
func (g *GitHubGateway) MergePullRequest(ctx context.Context, owner, repo string, number int, commitMessage string) error {
	g.logger.Printf("Merging PR %s/%s#%d...", owner, repo, number)
	result, _, err := g.restClient.PullRequests.Merge(ctx, owner, repo, number, commitMessage, nil)
	if err != nil {
		return fmt.Errorf("failed to merge pull request #%d: %w", number, err)
	}
	if !result.GetMerged() {
		return fmt.Errorf("pull request #%d was not merged: %s", number, result.GetMessage())
	}
	return nil
}

// ClosePullRequest closes the pull request without merging it.
func (g *GitHubGateway) ClosePullRequest(ctx context.Context, owner, repo string, number int) error {
	g.logger.Printf("Closing PR %s/%s#%d...", owner, repo, number)
	closed := "closed"
	_, _, err := g.restClient.PullRequests.Edit(ctx, owner, repo, number, &github.PullRequest{State: &closed})
	if err != nil {
		return fmt.Errorf("failed to close pull request #%d: %w", number, err)
	}
	return nil
}

// SubmitReview submits a review with the given event (APPROVE,
// REQUEST_CHANGES or COMMENT) and optional body.
func (g *GitHubGateway) SubmitReview(ctx context.Context, owner, repo string, number int, event, body string) error {
	g.logger.Printf("Submitting %s review on PR %s/%s#%d...", event, owner, repo, number)
	review := &github.PullRequestReviewRequest{Event: &event}
	if body != "" {
		review.Body = &body
	}
	_, _, err := g.restClient.PullRequests.CreateReview(ctx, owner, repo, number, review)
	if err != nil {
		return fmt.Errorf("failed to submit review on pull request #%d: %w", number, err)
	}
	return nil
}

// AddComment posts an issue comment on the pull request.
func (g *GitHubGateway) AddComment(ctx context.Context, owner, repo string, number int, body string) error {
	g.logger.Printf("Commenting on PR %s/%s#%d...", owner, repo, number)
	_, _, err := g.restClient.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: &body})
	if err != nil {
		return fmt.Errorf("failed to comment on pull request #%d: %w", number, err)
	}
	return nil
}

// UpdateFileContents commits new contents for one file on a branch. The sha
// of the blob being replaced is required by the API for edits.
func (g *GitHubGateway) UpdateFileContents(ctx context.Context, owner, repo, path, message, branch string, content []byte, sha string) error {
	g.logger.Printf("Updating %s on %s/%s@%s...", path, owner, repo, branch)
	opts := &github.RepositoryContentFileOptions{
		Message: &message,
		Content: content,
	}
	if branch != "" {
		opts.Branch = &branch
	}
	if sha != "" {
		opts.SHA = &sha
	}
	_, _, err := g.restClient.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}
	return nil
}

// UpdateBranch brings the pull request's head branch up to date with its
// base. GitHub processes the update asynchronously and answers 202, which
// go-github surfaces as AcceptedError; that is success here.
func (g *GitHubGateway) UpdateBranch(ctx context.Context, owner, repo string, number int) error {
	g.logger.Printf("Updating branch of PR %s/%s#%d...", owner, repo, number)
	_, _, err := g.restClient.PullRequests.UpdateBranch(ctx, owner, repo, number, nil)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return nil
		}
		return fmt.Errorf("failed to update branch of pull request #%d: %w", number, err)
	}
	return nil
}
