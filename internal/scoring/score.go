// Package scoring implements the contributor scoring model: a pure,
// deterministic transform from a ContributorSnapshot to a normalized score
// in [0, 100] with a display badge.
//
// Each unbounded raw metric is passed through a saturating logarithmic curve
// before weighting, so no single signal (follower count, stargazers) can
// dominate the total. Boolean statuses contribute flat additive bonuses.
// The weights and bonuses sum to exactly MaxScore; the result is clamped
// anyway so extreme inputs can never escape the documented range.
package scoring

import (
	"math"
	"time"

	"github.com/dossierkit/dossierkit/internal/domain"
	"github.com/montanaflynn/stats"
)

// MaxScore is the upper bound of the score range. The minimum is 0.
const MaxScore = 100

// Signal weights, in score points. Together with the flat bonuses below
// these sum to MaxScore.
const (
	followersWeight   = 15.0
	publicReposWeight = 8.0
	accountAgeWeight  = 12.0
	commitsWeight     = 15.0
	prMixWeight       = 15.0
	reviewsWeight     = 10.0
	fameWeight        = 10.0

	contributorBonus = 5.0
	orgMemberBonus   = 4.0
	ownerBonus       = 6.0
)

// Saturation ceilings: the raw value at which each log curve reaches 1.0.
const (
	followersCeil   = 5000.0
	publicReposCeil = 100.0
	accountAgeCeil  = 3650.0 // days, ten years
	commitsCeil     = 200.0
	prVolumeCeil    = 50.0
	reviewsCeil     = 50.0
	fameCeil        = 50000.0 // stargazers on the user's best repository
)

// Badge thresholds for display classification. Badges never feed back into
// the numeric score.
const coreContributionCount = 20

// Compute scores a contributor snapshot at the given reference instant.
// It is total over its input domain: every malformed or out-of-range field
// degrades to a zero contribution rather than an error, and identical inputs
// always produce identical output. The reference instant is only used to
// derive account age from AccountCreated.
func Compute(snap domain.ContributorSnapshot, now time.Time) domain.ContributorScore {
	b := domain.ScoreBreakdown{
		Followers:   followersWeight * logCurve(float64(snap.Followers), followersCeil),
		PublicRepos: publicReposWeight * logCurve(float64(snap.PublicRepos), publicReposCeil),
		AccountAge:  accountAgeWeight * logCurve(accountAgeDays(snap.AccountCreated, now), accountAgeCeil),
		Commits:     commitsWeight * logCurve(float64(snap.CommitsInRepo), commitsCeil),
		PRMix:       prMixWeight * prMixSignal(snap.PRsInRepo),
		Reviews:     reviewsWeight * logCurve(float64(snap.ReviewsInRepo), reviewsCeil),
		Fame:        fameWeight * logCurve(peakStars(snap.TopRepoStars), fameCeil),
	}
	if snap.IsContributor {
		b.Bonuses += contributorBonus
	}
	if snap.IsOrgMember {
		b.Bonuses += orgMemberBonus
	}
	if snap.IsOwner {
		b.Bonuses += ownerBonus
	}

	total := b.Followers + b.PublicRepos + b.AccountAge + b.Commits +
		b.PRMix + b.Reviews + b.Fame + b.Bonuses

	return domain.ContributorScore{
		Value:     clampScore(total),
		Badge:     badge(snap),
		Breakdown: b,
	}
}

// prMixSignal is the merged ratio of the user's authored PRs, scaled by a
// volume curve so a 1-of-1 merged history does not score like 50-of-50.
// Returns a value in [0, 1].
func prMixSignal(prs []domain.PullRequest) float64 {
	if len(prs) == 0 {
		return 0
	}
	merged := 0
	for _, pr := range prs {
		if pr.State == domain.PRStateMerged {
			merged++
		}
	}
	ratio := float64(merged) / float64(len(prs))
	return ratio * logCurve(float64(len(prs)), prVolumeCeil)
}

// accountAgeDays derives the account age in days from an RFC3339 creation
// timestamp. Empty or unparseable timestamps, and creation instants in the
// future of the reference instant, all yield zero.
func accountAgeDays(created string, now time.Time) float64 {
	if created == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return 0
	}
	days := now.Sub(t).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

// peakStars reduces the top-repository stargazer counts to the single
// highest value. An empty or all-invalid list yields zero.
func peakStars(topStars []int) float64 {
	vals := make([]float64, 0, len(topStars))
	for _, s := range topStars {
		if s > 0 {
			vals = append(vals, float64(s))
		}
	}
	if len(vals) == 0 {
		return 0
	}
	peak, err := stats.Max(vals)
	if err != nil {
		return 0
	}
	return peak
}

// badge classifies the contributor for display, strongest tier first.
func badge(snap domain.ContributorSnapshot) string {
	switch {
	case snap.IsOwner:
		return "owner"
	case snap.IsOrgMember:
		return "maintainer"
	case snap.IsContributor && snap.ContributionCount >= coreContributionCount:
		return "core"
	case snap.IsContributor:
		return "contributor"
	default:
		return "newcomer"
	}
}

// logCurve maps val into [0, 1] with logarithmic diminishing returns,
// saturating at ceil. Non-positive inputs map to 0.
func logCurve(val, ceil float64) float64 {
	if ceil <= 0 || val <= 0 {
		return 0
	}
	r := math.Log(1+val) / math.Log(1+ceil)
	if r >= 1 {
		return 1
	}
	return r
}

// clampScore rounds the summed signal points and pins the result to
// [0, MaxScore].
func clampScore(total float64) int {
	v := int(math.Round(total))
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
