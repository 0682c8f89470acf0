package authz

import (
	"testing"

	"github.com/plataforma-sst/accessgate/internal/authapi"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

func TestCatalogShape(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range Catalog() {
		if b.Key == "" || b.Resource == "" || b.Action == "" {
			t.Fatalf("incomplete binding: %+v", b)
		}
		if seen[b.Key] {
			t.Fatalf("duplicate capability key %s", b.Key)
		}
		seen[b.Key] = true
	}
	for _, key := range []string{"canViewUsersPage", "canUpdateAttendance", "canSubmitEvaluations", "canViewMaterialsPage"} {
		if !KnownCapability(key) {
			t.Fatalf("expected %s in catalog", key)
		}
	}
	if KnownCapability("canFly") {
		t.Fatalf("unexpected capability accepted")
	}
}

func TestCanAccessPageTraditional(t *testing.T) {
	trainer := &shared.Principal{ID: 1, Email: "t@e.co", Role: shared.RoleTrainer}
	supervisor := &shared.Principal{ID: 2, Email: "s@e.co", Role: shared.RoleSupervisor}

	if CanAccessPage("/admin/roles", trainer, Snapshot{}) {
		t.Fatalf("trainer must not reach /admin/roles")
	}
	if !CanAccessPage("/admin/workers", supervisor, Snapshot{}) {
		t.Fatalf("supervisor must reach /admin/workers")
	}
	// Routes absent from the table are open for traditional principals.
	if !CanAccessPage("/something/new", trainer, Snapshot{}) {
		t.Fatalf("unmapped route must default open for traditional principals")
	}
}

func TestCanAccessPageCustomRole(t *testing.T) {
	roleID := int64(9)
	p := &shared.Principal{ID: 3, Email: "c@e.co", Role: shared.RoleSupervisor, CustomRoleID: &roleID}

	caps := AllFalse()
	caps["canViewWorkersPage"] = true
	snap := Snapshot{Capabilities: caps}

	if !CanAccessPage("/admin/workers", p, snap) {
		t.Fatalf("capability-backed route must open with the capability")
	}
	if CanAccessPage("/admin/users", p, snap) {
		t.Fatalf("/admin/users requires canUpdateUsers for custom roles")
	}
	// Unmapped routes default closed for custom-role principals.
	if CanAccessPage("/something/new", p, snap) {
		t.Fatalf("unmapped route must default closed for custom-role principals")
	}
}

func TestCanAccessPageGrantFallback(t *testing.T) {
	roleID := int64(9)
	p := &shared.Principal{ID: 3, Email: "c@e.co", Role: shared.RoleEmployee, CustomRoleID: &roleID}
	snap := Snapshot{
		Capabilities: AllFalse(),
		Grants: []authapi.PageGrant{
			{PageRoute: "/custom/board", CanAccess: true},
			{PageRoute: "/custom/vault", CanAccess: false},
		},
	}

	if !CanAccessPage("/custom/board", p, snap) {
		t.Fatalf("explicit grant must open the route")
	}
	if CanAccessPage("/custom/vault", p, snap) {
		t.Fatalf("explicit deny grant must keep the route closed")
	}
}

func TestCanAccessPageAdminOnlyAndOpen(t *testing.T) {
	roleID := int64(9)
	admin := &shared.Principal{ID: 1, Email: "a@e.co", Role: shared.RoleAdmin, CustomRoleID: &roleID}
	employee := &shared.Principal{ID: 2, Email: "e@e.co", Role: shared.RoleEmployee, CustomRoleID: &roleID}

	if !CanAccessPage("/admin/audit", admin, Snapshot{Capabilities: AllFalse()}) {
		t.Fatalf("admin must reach /admin/audit")
	}
	if CanAccessPage("/admin/audit", employee, Snapshot{Capabilities: AllTrue()}) {
		t.Fatalf("/admin/audit is admin only regardless of capabilities")
	}
	if !CanAccessPage("/dashboard", employee, Snapshot{Capabilities: AllFalse()}) {
		t.Fatalf("/dashboard is open to any authenticated principal")
	}
	if CanAccessPage("/dashboard", nil, Snapshot{}) {
		t.Fatalf("nil principal must never pass")
	}
}
