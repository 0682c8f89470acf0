// Package routeguard decides allow/deny for navigation attempts against a
// static rule registry. Deciding is a pure function of the route, the
// principal and the resolved capability set.
package routeguard

import (
	"fmt"
	"regexp"

	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

var paramSegment = regexp.MustCompile(`:[^/]+`)

type compiledRule struct {
	rule    Rule
	matcher *regexp.Regexp
}

// Registry holds the compiled rule set. Rules are matched in registration
// order; the first match wins.
type Registry struct {
	rules []compiledRule
}

// NewRegistry compiles the rule patterns. ":param" segments match any single
// path segment.
func NewRegistry(rules []Rule) (*Registry, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		pattern := "^" + paramSegment.ReplaceAllString(rule.Pattern, "[^/]+") + "$"
		matcher, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("routeguard: compile pattern %q: %w", rule.Pattern, err)
		}
		compiled = append(compiled, compiledRule{rule: rule, matcher: matcher})
	}
	return &Registry{rules: compiled}, nil
}

// Decision explains one guard verdict.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Rule    string `json:"rule,omitempty"`
	Matched bool   `json:"matched"`
}

// Decide evaluates access for one route. Routes matched by no rule are
// allowed; everything else requires a principal, role membership and, when the
// rule names them, the full set of required capabilities. A rule's custom
// check overrides the capability requirement.
func (g *Registry) Decide(route string, p *shared.Principal, caps authz.CapabilitySet) Decision {
	var matched *Rule
	for i := range g.rules {
		if g.rules[i].matcher.MatchString(route) {
			matched = &g.rules[i].rule
			break
		}
	}
	if matched == nil {
		return Decision{Allowed: true}
	}

	decision := Decision{Rule: matched.Name, Matched: true}
	if p == nil {
		return decision
	}

	role := p.BaseRole()
	member := false
	for _, allowed := range matched.AllowedRoles {
		if allowed == role {
			member = true
			break
		}
	}
	if !member {
		return decision
	}

	if matched.Check != nil {
		decision.Allowed = matched.Check(caps, p)
		return decision
	}

	if len(matched.RequiredCapabilities) > 0 {
		for _, key := range matched.RequiredCapabilities {
			if !caps.Allowed(key) {
				return decision
			}
		}
		decision.Allowed = true
		return decision
	}

	// Role membership alone suffices.
	decision.Allowed = true
	return decision
}

// CanEnter reports whether the principal may enter the route.
func (g *Registry) CanEnter(route string, p *shared.Principal, caps authz.CapabilitySet) bool {
	return g.Decide(route, p, caps).Allowed
}
