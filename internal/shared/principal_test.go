package shared

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := map[string]Role{
		"admin":             RoleAdmin,
		"UserRole.admin":    RoleAdmin,
		"UserRole.empleado": Role("empleado"),
		" Supervisor ":      RoleSupervisor,
		"UserRole.Trainer":  RoleTrainer,
		"":                  Role(""),
	}
	for raw, want := range cases {
		if got := NormalizeRole(raw); got != want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestPrincipalHelpers(t *testing.T) {
	roleID := int64(4)
	p := &Principal{ID: 1, FirstName: "Ana", LastName: "Mora", Role: Role("UserRole.admin"), CustomRoleID: &roleID}

	if !p.IsAdmin() {
		t.Fatalf("prefixed admin role must report admin")
	}
	if !p.HasCustomRole() {
		t.Fatalf("expected custom role")
	}
	if p.BaseRole() != RoleAdmin {
		t.Fatalf("expected normalized base role")
	}
	if p.FullName() != "Ana Mora" {
		t.Fatalf("unexpected full name %q", p.FullName())
	}

	var nilP *Principal
	if nilP.IsAdmin() || nilP.HasCustomRole() || nilP.BaseRole() != "" || nilP.FullName() != "" {
		t.Fatalf("nil principal helpers must be safe")
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleTrainer, RoleSupervisor, RoleEmployee} {
		if !role.Valid() {
			t.Fatalf("%s must be valid", role)
		}
	}
	if Role("root").Valid() {
		t.Fatalf("unexpected role accepted")
	}
}
