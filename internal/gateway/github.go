// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/dossierkit/dossierkit/internal/domain"
)

// AccountInfo holds the account-level fields of a contributor snapshot.
type AccountInfo struct {
	Login       string
	Followers   int
	PublicRepos int
	CreatedAt   string // RFC3339; empty when GitHub reports no creation time
}

// Fetcher defines the read side of the gateway: everything needed to
// assemble a contributor snapshot for one repository.
type Fetcher interface {
	FetchAccount(ctx context.Context, login string) (AccountInfo, error)
	FetchAuthoredPRs(ctx context.Context, owner, repo, login string) ([]domain.PullRequest, error)
	FetchReviewCount(ctx context.Context, owner, repo, login string) (int, error)
	FetchCommitCount(ctx context.Context, owner, repo, login string) (int, error)
	FetchTopRepoStars(ctx context.Context, login string) ([]int, error)
	FetchOrgMembership(ctx context.Context, org, login string) (bool, error)
}

// GitHubGateway is the concrete implementation of the Fetcher and Actor
// interfaces.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// authoredPRsQuery pages through every PR authored by the user in the
// target repository, carrying only the state of each.
type authoredPRsQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename    string `graphql:"__typename"`
				PullRequest struct {
					State githubv4.PullRequestState
				} `graphql:"... on PullRequest"`
			}
		}
	} `graphql:"search(query: $query, type: ISSUE, first: 100, after: $cursor)"`
}

// reviewCountQuery only needs the aggregate count, so a single page of one
// result is enough.
type reviewCountQuery struct {
	Search struct {
		IssueCount githubv4.Int
	} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
}

// topRepositoriesQuery fetches the stargazer counts of the user's
// most-starred owned repositories.
type topRepositoriesQuery struct {
	User struct {
		Repositories struct {
			Nodes []struct {
				StargazerCount githubv4.Int
			}
		} `graphql:"repositories(first: 5, ownerAffiliations: OWNER, orderBy: {field: STARGAZERS, direction: DESC})"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchAccount retrieves the account-level profile fields via the REST API.
func (g *GitHubGateway) FetchAccount(ctx context.Context, login string) (AccountInfo, error) {
	g.logger.Printf("Fetching account profile for %s...", login)
	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("failed to fetch account %s: %w", login, err)
	}
	info := AccountInfo{
		Login:       user.GetLogin(),
		Followers:   user.GetFollowers(),
		PublicRepos: user.GetPublicRepos(),
	}
	if created := user.GetCreatedAt(); !created.IsZero() {
		info.CreatedAt = created.Format(time.RFC3339)
	}
	return info, nil
}

// FetchAuthoredPRs lists the state of every PR the user authored in the
// repository, paging through the GraphQL search.
func (g *GitHubGateway) FetchAuthoredPRs(ctx context.Context, owner, repo, login string) ([]domain.PullRequest, error) {
	g.logger.Printf("Fetching authored PRs for %s in %s/%s...", login, owner, repo)
	query := fmt.Sprintf("repo:%s/%s author:%s is:pr", owner, repo, login)
	variables := map[string]interface{}{
		"query":  githubv4.String(query),
		"cursor": (*githubv4.String)(nil),
	}

	var prs []domain.PullRequest
	for {
		var q authoredPRsQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for authored PRs: %w", err)
		}
		for _, edge := range q.Search.Edges {
			if edge.Node.Typename != "PullRequest" {
				continue
			}
			prs = append(prs, domain.PullRequest{State: prState(edge.Node.PullRequest.State)})
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of authored PRs...")
	}
	return prs, nil
}

// FetchReviewCount counts PRs in the repository reviewed by the user,
// excluding the user's own.
func (g *GitHubGateway) FetchReviewCount(ctx context.Context, owner, repo, login string) (int, error) {
	g.logger.Printf("Fetching review count for %s in %s/%s...", login, owner, repo)
	query := fmt.Sprintf("repo:%s/%s reviewed-by:%s -author:%s is:pr", owner, repo, login, login)
	variables := map[string]interface{}{"query": githubv4.String(query)}

	var q reviewCountQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for review count: %w", err)
	}
	return int(q.Search.IssueCount), nil
}

// FetchCommitCount counts commits in the repository authored by the user
// using the REST commit search. Only the aggregate total is needed.
func (g *GitHubGateway) FetchCommitCount(ctx context.Context, owner, repo, login string) (int, error) {
	g.logger.Printf("Fetching commit count for %s in %s/%s...", login, owner, repo)
	query := fmt.Sprintf("repo:%s/%s author:%s", owner, repo, login)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, _, err := g.restClient.Search.Commits(ctx, query, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to search commits with REST API: %w", err)
	}
	return result.GetTotal(), nil
}

// FetchTopRepoStars returns the stargazer counts of the user's most-starred
// owned repositories, highest first.
func (g *GitHubGateway) FetchTopRepoStars(ctx context.Context, login string) ([]int, error) {
	g.logger.Printf("Fetching top repositories for %s...", login)
	variables := map[string]interface{}{"login": githubv4.String(login)}

	var q topRepositoriesQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for top repositories: %w", err)
	}
	stars := make([]int, 0, len(q.User.Repositories.Nodes))
	for _, node := range q.User.Repositories.Nodes {
		stars = append(stars, int(node.StargazerCount))
	}
	return stars, nil
}

// FetchOrgMembership reports whether the user belongs to the organization.
// go-github already maps the API's 404 to (false, nil).
func (g *GitHubGateway) FetchOrgMembership(ctx context.Context, org, login string) (bool, error) {
	g.logger.Printf("Checking org membership of %s in %s...", login, org)
	member, _, err := g.restClient.Organizations.IsMember(ctx, org, login)
	if err != nil {
		return false, fmt.Errorf("failed to check org membership: %w", err)
	}
	return member, nil
}

// prState maps the GraphQL PR state enum to the domain state.
func prState(s githubv4.PullRequestState) domain.PRState {
	switch s {
	case githubv4.PullRequestStateMerged:
		return domain.PRStateMerged
	case githubv4.PullRequestStateClosed:
		return domain.PRStateClosed
	default:
		return domain.PRStateOpen
	}
}
