// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dossierkit/dossierkit/internal/cache"
	"github.com/dossierkit/dossierkit/internal/domain"
	"github.com/dossierkit/dossierkit/internal/gateway"
	"github.com/dossierkit/dossierkit/internal/scoring"
)

// Store is the cache surface the use cases need: byte blobs keyed by
// scope-prefixed paths.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
}

// DossierBuilder assembles a contributor dossier for one repository.
// It orchestrates the concurrent fetching of every snapshot signal, derives
// the classification fields, and runs the scoring model.
type DossierBuilder struct {
	fetcher gateway.Fetcher
	store   Store
	logger  *log.Logger
}

// NewDossierBuilder creates a new DossierBuilder instance.
func NewDossierBuilder(fetcher gateway.Fetcher, store Store, logger *log.Logger) *DossierBuilder {
	return &DossierBuilder{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// Build fetches all signals concurrently, assembles the snapshot and scores
// it at the given reference instant. Results are cached under
// dossier/<owner>/<repo>/<login> until invalidated or expired.
func (b *DossierBuilder) Build(ctx context.Context, owner, repo, login string, at time.Time) (*domain.Dossier, error) {
	key := cache.Key("dossier", owner, repo, login)
	if data, ok := b.store.Get(key); ok {
		var cached domain.Dossier
		if err := json.Unmarshal(data, &cached); err == nil {
			b.logger.Printf("Usecase: cache hit for %s", key)
			return &cached, nil
		}
		// A cache entry that fails to decode is treated as a miss.
	}

	b.logger.Println("Usecase: Starting dossier assembly...")

	var (
		account     gateway.AccountInfo
		prs         []domain.PullRequest
		reviewCount int
		commitCount int
		topStars    []int
		orgMember   bool
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		account, err = b.fetcher.FetchAccount(egCtx, login)
		return err
	})

	eg.Go(func() error {
		var err error
		prs, err = b.fetcher.FetchAuthoredPRs(egCtx, owner, repo, login)
		return err
	})

	eg.Go(func() error {
		var err error
		reviewCount, err = b.fetcher.FetchReviewCount(egCtx, owner, repo, login)
		return err
	})

	eg.Go(func() error {
		var err error
		commitCount, err = b.fetcher.FetchCommitCount(egCtx, owner, repo, login)
		return err
	})

	eg.Go(func() error {
		var err error
		topStars, err = b.fetcher.FetchTopRepoStars(egCtx, login)
		return err
	})

	eg.Go(func() error {
		// Membership lookups fail for user-owned repositories, where the
		// owner is not an organization at all; degrade to false.
		member, err := b.fetcher.FetchOrgMembership(egCtx, owner, login)
		if err != nil {
			b.logger.Printf("Usecase: org membership unavailable, assuming none: %v", err)
			return nil
		}
		orgMember = member
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	b.logger.Println("Usecase: All signals fetched successfully.")

	merged := 0
	for _, pr := range prs {
		if pr.State == domain.PRStateMerged {
			merged++
		}
	}
	contributionCount := merged + reviewCount

	snapshot := domain.ContributorSnapshot{
		Followers:         account.Followers,
		PublicRepos:       account.PublicRepos,
		AccountCreated:    account.CreatedAt,
		CommitsInRepo:     commitCount,
		PRsInRepo:         prs,
		ReviewsInRepo:     reviewCount,
		IsContributor:     commitCount > 0 || merged > 0 || reviewCount > 0,
		ContributionCount: contributionCount,
		IsOrgMember:       orgMember,
		IsOwner:           strings.EqualFold(login, owner),
		TopRepoStars:      topStars,
	}

	dossier := &domain.Dossier{
		Login:       login,
		Owner:       owner,
		Repo:        repo,
		Snapshot:    snapshot,
		Score:       scoring.Compute(snapshot, at),
		GeneratedAt: at.UTC().Format(time.RFC3339),
	}

	if data, err := json.Marshal(dossier); err == nil {
		b.store.Set(key, data)
	}

	b.logger.Println("Usecase: Dossier assembly complete.")
	return dossier, nil
}
