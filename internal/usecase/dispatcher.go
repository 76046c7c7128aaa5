package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/dossierkit/dossierkit/internal/cache"
	"github.com/dossierkit/dossierkit/internal/gateway"
)

// ActionKind names a pull-request action a user can trigger.
type ActionKind string

const (
	ActionMerge          ActionKind = "merge"
	ActionClose          ActionKind = "close"
	ActionApprove        ActionKind = "approve"
	ActionRequestChanges ActionKind = "request-changes"
	ActionComment        ActionKind = "comment"
	ActionEditFile       ActionKind = "edit-file"
	ActionUpdateBranch   ActionKind = "update-branch"
)

// ActionRequest carries the parameters of one action. Body doubles as the
// merge commit message, review body or comment text depending on the kind;
// Path, Branch, Content and SHA only apply to edit-file.
type ActionRequest struct {
	Kind    ActionKind
	Owner   string
	Repo    string
	Number  int
	Body    string
	Path    string
	Branch  string
	Content []byte
	SHA     string
}

// Invalidator drops all cache entries under a scope prefix.
type Invalidator interface {
	InvalidateScope(scope string) int
}

// actionSpec couples an action's remote call with the cache scopes it makes
// stale. One table entry per kind replaces a per-action handler.
type actionSpec struct {
	execute func(ctx context.Context, actor gateway.Actor, req ActionRequest) error
	scopes  func(req ActionRequest) []string
}

func pullScopes(req ActionRequest) []string {
	return []string{
		cache.Key("pulls", req.Owner, req.Repo),
		cache.Key("dossier", req.Owner, req.Repo),
	}
}

func contentScopes(req ActionRequest) []string {
	return []string{
		cache.Key("contents", req.Owner, req.Repo),
		cache.Key("pulls", req.Owner, req.Repo),
	}
}

var actionTable = map[ActionKind]actionSpec{
	ActionMerge: {
		execute: func(ctx context.Context, actor gateway.Actor, req ActionRequest) error {
			return actor.MergePullRequest(ctx, req.Owner, req.Repo, req.Number, req.Body)
		},
		scopes: pullScopes,
	},
	ActionClose: {
		execute: func(ctx context.Context, actor gateway.Actor, req ActionRequest) error {
			return actor.ClosePullRequest(ctx, req.Owner, req.Repo, req.Number)
		},
		scopes: pullScopes,
	},
	ActionApprove: {
		execute: func(ctx context.Context, actor gateway.Actor, req ActionRequest) error {
			return actor.SubmitReview(ctx, req.Owner, req.Repo, req.Number, gateway.ReviewApprove, req.Body)
		},
		scopes: pullScopes,
	},
	ActionRequestChanges: {
		execute: func(ctx context.Context, actor gateway.Actor, req ActionRequest) error {
			return actor.SubmitReview(ctx, req.Owner, req.Repo, req.Number, gateway.ReviewRequestChanges, req.Body)
		},
		scopes: pullScopes,
	},
	ActionComment: {
		execute: func(ctx context.Context, actor gateway.Actor, req ActionRequest) error {
			return actor.AddComment(ctx, req.Owner, req.Repo, req.Number, req.Body)
		},
		scopes: pullScopes,
	},
	ActionEditFile: {
		execute: func(ctx context.Context, actor gateway.Actor, req ActionRequest) error {
			return actor.UpdateFileContents(ctx, req.Owner, req.Repo, req.Path, req.Body, req.Branch, req.Content, req.SHA)
		},
		scopes: contentScopes,
	},
	ActionUpdateBranch: {
		execute: func(ctx context.Context, actor gateway.Actor, req ActionRequest) error {
			return actor.UpdateBranch(ctx, req.Owner, req.Repo, req.Number)
		},
		scopes: pullScopes,
	},
}

// ActionDispatcher forwards pull-request actions to the gateway and
// invalidates the affected cache scopes after each successful call.
type ActionDispatcher struct {
	actor  gateway.Actor
	cache  Invalidator
	logger *log.Logger
}

// NewActionDispatcher creates a new ActionDispatcher instance.
func NewActionDispatcher(actor gateway.Actor, invalidator Invalidator, logger *log.Logger) *ActionDispatcher {
	return &ActionDispatcher{
		actor:  actor,
		cache:  invalidator,
		logger: logger,
	}
}

// Dispatch executes the requested action. When the remote call fails, the
// error is returned and no cache entry is touched.
func (d *ActionDispatcher) Dispatch(ctx context.Context, req ActionRequest) error {
	spec, ok := actionTable[req.Kind]
	if !ok {
		return fmt.Errorf("unknown action kind %q", req.Kind)
	}

	d.logger.Printf("Usecase: dispatching %s for %s/%s#%d...", req.Kind, req.Owner, req.Repo, req.Number)
	if err := spec.execute(ctx, d.actor, req); err != nil {
		return fmt.Errorf("action %s failed: %w", req.Kind, err)
	}

	for _, scope := range spec.scopes(req) {
		dropped := d.cache.InvalidateScope(scope)
		d.logger.Printf("Usecase: invalidated %d cache entries under %s", dropped, scope)
	}
	return nil
}
