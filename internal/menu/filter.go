package menu

import (
	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Builder filters the static tree for a principal. Filtering is pure: the
// source tree is never mutated and repeated calls with the same inputs yield
// the same result.
type Builder struct {
	tree       []Entry
	predicates PredicateSet
}

// NewBuilder constructs a Builder over the given tree and predicate set.
func NewBuilder(tree []Entry, predicates PredicateSet) *Builder {
	return &Builder{tree: tree, predicates: predicates}
}

// Build returns the subtree visible to the principal. A nil principal sees
// nothing. Principals with a custom role are judged by predicate where one
// exists, otherwise by role membership; everyone else by role membership only.
// A parent with children survives only if at least one child survives.
func (b *Builder) Build(p *shared.Principal, caps authz.CapabilitySet) []Entry {
	if p == nil {
		return nil
	}
	return b.filter(b.tree, p, caps)
}

func (b *Builder) filter(entries []Entry, p *shared.Principal, caps authz.CapabilitySet) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !b.visible(e, p, caps) {
			continue
		}
		node := e
		node.Children = nil
		if len(e.Children) > 0 {
			node.Children = b.filter(e.Children, p, caps)
			if len(node.Children) == 0 {
				continue
			}
		}
		out = append(out, node)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (b *Builder) visible(e Entry, p *shared.Principal, caps authz.CapabilitySet) bool {
	if p.HasCustomRole() {
		if pred, ok := b.predicates[e.ID]; ok {
			return pred(caps, p)
		}
	}
	if len(e.Roles) == 0 {
		// Structural entries without a role list defer to their children.
		return true
	}
	role := p.BaseRole()
	for _, allowed := range e.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}
