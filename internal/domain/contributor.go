// Package domain contains the core data structures and domain logic for the application.
package domain

// PRState is the lifecycle state of a pull request as reported by GitHub.
type PRState string

const (
	PRStateMerged PRState = "merged"
	PRStateClosed PRState = "closed"
	PRStateOpen   PRState = "open"
)

// PullRequest is the slice of pull-request data the scoring model cares
// about: nothing beyond its state.
type PullRequest struct {
	State PRState `json:"state"`
}

// ContributorSnapshot is an immutable picture of a contributor's account and
// their activity within one repository, assembled once per request by the
// dossier builder (or read from a JSON file for offline scoring).
type ContributorSnapshot struct {
	Followers         int           `json:"followers"`
	PublicRepos       int           `json:"public_repos"`
	AccountCreated    string        `json:"account_created"` // RFC3339; may be empty
	CommitsInRepo     int           `json:"commits_in_repo"`
	PRsInRepo         []PullRequest `json:"prs_in_repo"`
	ReviewsInRepo     int           `json:"reviews_in_repo"`
	IsContributor     bool          `json:"is_contributor"`
	ContributionCount int           `json:"contribution_count"`
	IsOrgMember       bool          `json:"is_org_member"`
	IsOwner           bool          `json:"is_owner"`
	TopRepoStars      []int         `json:"top_repo_stars"`
}

// ScoreBreakdown lists the contribution of each sub-signal to the final
// score, in score points. The fields sum (before rounding) to the value.
type ScoreBreakdown struct {
	Followers   float64 `json:"followers"`
	PublicRepos float64 `json:"public_repos"`
	AccountAge  float64 `json:"account_age"`
	Commits     float64 `json:"commits"`
	PRMix       float64 `json:"pr_mix"`
	Reviews     float64 `json:"reviews"`
	Fame        float64 `json:"fame"`
	Bonuses     float64 `json:"bonuses"`
}

// ContributorScore is the output of the scoring model: a normalized value in
// [0, 100], a display badge, and the per-signal breakdown.
type ContributorScore struct {
	Value     int            `json:"value"`
	Badge     string         `json:"badge"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Dossier bundles a contributor snapshot with its computed score and the
// identifiers it was built for. It is the JSON output entity of the CLI.
type Dossier struct {
	Login       string              `json:"login"`
	Owner       string              `json:"owner"`
	Repo        string              `json:"repo"`
	Snapshot    ContributorSnapshot `json:"snapshot"`
	Score       ContributorScore    `json:"score"`
	GeneratedAt string              `json:"generated_at"`
}
