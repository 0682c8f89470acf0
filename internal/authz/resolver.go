package authz

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/plataforma-sst/accessgate/internal/authapi"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// PermissionAPI is the slice of the upstream client the resolver needs.
type PermissionAPI interface {
	MyPages(ctx context.Context, token string) ([]authapi.PageGrant, error)
	CheckPermission(ctx context.Context, token, resourceType, action string) (bool, error)
}

// CheckObserver counts individual permission check outcomes.
type CheckObserver interface {
	ObservePermissionCheck(result string)
}

// Snapshot is the immutable result of one resolve pass. Consumers only read it;
// a refresh replaces the whole snapshot rather than mutating in place.
type Snapshot struct {
	Capabilities CapabilitySet
	Grants       []authapi.PageGrant
}

// Resolver computes capability snapshots for principals.
type Resolver struct {
	api      PermissionAPI
	logger   *slog.Logger
	observer CheckObserver
	limit    int
}

// NewResolver constructs a Resolver. limit bounds the concurrent upstream
// checks per resolve pass.
func NewResolver(api PermissionAPI, logger *slog.Logger, observer CheckObserver, limit int) *Resolver {
	if limit <= 0 {
		limit = 8
	}
	return &Resolver{api: api, logger: logger, observer: observer, limit: limit}
}

// Resolve computes the full capability set and grant list for a principal.
// It never fails: every upstream error is isolated to the single capability or
// the grant list it affects and degrades to false or empty.
func (r *Resolver) Resolve(ctx context.Context, p *shared.Principal, token string) Snapshot {
	if p == nil {
		return Snapshot{Capabilities: AllFalse()}
	}

	if p.IsAdmin() {
		snap := Snapshot{Capabilities: AllTrue()}
		// Grants are fetched for completeness when a custom role is attached,
		// but admin short-circuits everywhere so they never gate anything.
		if p.HasCustomRole() {
			snap.Grants = r.fetchGrants(ctx, token)
		}
		return snap
	}

	if !p.HasCustomRole() {
		// Non-admin principals without a custom role are governed entirely by
		// the static role tables, not by capability flags.
		return Snapshot{Capabilities: AllFalse()}
	}

	grants := r.fetchGrants(ctx, token)

	bindings := Catalog()
	results := make([]bool, len(bindings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, binding := range bindings {
		g.Go(func() error {
			ok, err := r.api.CheckPermission(gctx, token, binding.Resource, binding.Action)
			if err != nil {
				r.logger.Warn("permission check failed",
					slog.String("capability", binding.Key), slog.Any("error", err))
				r.observe("error")
				return nil
			}
			if ok {
				r.observe("allow")
			} else {
				r.observe("deny")
			}
			results[i] = ok
			return nil
		})
	}
	_ = g.Wait()

	set := make(CapabilitySet, len(bindings))
	for i, binding := range bindings {
		set[binding.Key] = results[i]
	}
	return Snapshot{Capabilities: set, Grants: grants}
}

// CheckPermission is the uncached single-shot variant of one capability check.
// It returns false on any error, including the absence of a principal.
func (r *Resolver) CheckPermission(ctx context.Context, p *shared.Principal, token, resourceType, action string) bool {
	if p == nil {
		return false
	}
	ok, err := r.api.CheckPermission(ctx, token, resourceType, action)
	if err != nil {
		r.logger.Warn("permission check failed",
			slog.String("resource", resourceType), slog.String("action", action), slog.Any("error", err))
		r.observe("error")
		return false
	}
	return ok
}

func (r *Resolver) fetchGrants(ctx context.Context, token string) []authapi.PageGrant {
	grants, err := r.api.MyPages(ctx, token)
	if err != nil {
		r.logger.Warn("page grant fetch failed, degrading to empty", slog.Any("error", err))
		return nil
	}
	return grants
}

func (r *Resolver) observe(result string) {
	if r.observer != nil {
		r.observer.ObservePermissionCheck(result)
	}
}
