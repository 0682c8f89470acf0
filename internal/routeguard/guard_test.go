package routeguard

import (
	"testing"

	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/shared"
	_ "github.com/plataforma-sst/accessgate/testing"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(DefaultRules())
	if err != nil {
		t.Fatalf("compile rules: %v", err)
	}
	return registry
}

func principal(role shared.Role, customRoleID *int64) *shared.Principal {
	return &shared.Principal{ID: 1, Email: "p@e.co", Role: role, CustomRoleID: customRoleID}
}

func TestDecideUnmatchedRouteAllowed(t *testing.T) {
	registry := defaultRegistry(t)
	decision := registry.Decide("/totally/unknown", nil, nil)
	if !decision.Allowed || decision.Matched {
		t.Fatalf("unmatched route must be allowed without a rule: %+v", decision)
	}
}

func TestDecideNilPrincipalDenied(t *testing.T) {
	registry := defaultRegistry(t)
	decision := registry.Decide("/admin/workers", nil, authz.AllTrue())
	if decision.Allowed {
		t.Fatalf("guarded route must deny without a principal")
	}
	if !decision.Matched || decision.Rule == "" {
		t.Fatalf("expected a named matching rule: %+v", decision)
	}
}

func TestDecideRoleMembership(t *testing.T) {
	registry := defaultRegistry(t)

	if registry.CanEnter("/employee/courses", principal(shared.RoleTrainer, nil), authz.AllTrue()) {
		t.Fatalf("trainer must not enter employee self-service")
	}
	if !registry.CanEnter("/employee/courses", principal(shared.RoleEmployee, nil), authz.AllFalse()) {
		t.Fatalf("employee pages gate on role alone")
	}
}

func TestDecideNormalizedUpstreamRole(t *testing.T) {
	registry := defaultRegistry(t)
	p := &shared.Principal{ID: 1, Email: "a@e.co", Role: shared.Role("UserRole.admin")}
	if !registry.CanEnter("/admin/dashboard", p, authz.AllFalse()) {
		t.Fatalf("prefixed upstream role must normalize to admin")
	}
}

func TestDecideCapabilityCheck(t *testing.T) {
	registry := defaultRegistry(t)
	roleID := int64(4)
	p := principal(shared.RoleSupervisor, &roleID)

	caps := authz.AllFalse()
	if registry.CanEnter("/admin/workers", p, caps) {
		t.Fatalf("missing capability must deny")
	}
	caps["canViewWorkersPage"] = true
	if !registry.CanEnter("/admin/workers", p, caps) {
		t.Fatalf("capability must open the route for an allowed role")
	}
}

func TestDecideCustomCheckOverride(t *testing.T) {
	registry := defaultRegistry(t)

	// /admin/users: admins pass outright, supervisors need the capability.
	if !registry.CanEnter("/admin/users", principal(shared.RoleAdmin, nil), authz.AllFalse()) {
		t.Fatalf("admin must pass the users custom check without capabilities")
	}
	if registry.CanEnter("/admin/users", principal(shared.RoleSupervisor, nil), authz.AllFalse()) {
		t.Fatalf("supervisor without canViewUsersPage must be denied")
	}
	caps := authz.AllFalse()
	caps["canViewUsersPage"] = true
	if !registry.CanEnter("/admin/users", principal(shared.RoleSupervisor, nil), caps) {
		t.Fatalf("supervisor with canViewUsersPage must pass")
	}
}

func TestDecideCombinedEnrollmentCheck(t *testing.T) {
	registry := defaultRegistry(t)
	p := principal(shared.RoleTrainer, nil)

	caps := authz.AllFalse()
	caps["canViewEnrollmentPage"] = true
	if !registry.CanEnter("/admin/enrollments", p, caps) {
		t.Fatalf("either courses or enrollment capability must open enrollments")
	}
}

func TestDecideParamSegments(t *testing.T) {
	registry := defaultRegistry(t)
	roleID := int64(4)
	p := principal(shared.RoleSupervisor, &roleID)
	caps := authz.AllFalse()
	caps["canViewWorkersPage"] = true

	if !registry.CanEnter("/admin/workers/42", p, caps) {
		t.Fatalf(":workerId segment must match a concrete id")
	}
	if !registry.CanEnter("/admin/workers/42/vacations", p, caps) {
		t.Fatalf("nested param route must match")
	}
	decision := registry.Decide("/admin/workers/42/extra/deep", p, caps)
	if decision.Matched {
		t.Fatalf("param segment must not span multiple segments: %+v", decision)
	}
}
