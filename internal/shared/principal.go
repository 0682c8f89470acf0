package shared

import "strings"

// Role is one of the four fixed base roles of the platform.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTrainer    Role = "trainer"
	RoleSupervisor Role = "supervisor"
	RoleEmployee   Role = "employee"
)

const legacyRolePrefix = "UserRole."

// NormalizeRole parses a role string, stripping the legacy "UserRole." prefix
// still emitted by older upstream deployments.
func NormalizeRole(raw string) Role {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.Index(trimmed, legacyRolePrefix); idx == 0 {
		trimmed = trimmed[len(legacyRolePrefix):]
	}
	return Role(strings.ToLower(trimmed))
}

// Valid reports whether the role is one of the enumerated base roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleSupervisor, RoleEmployee:
		return true
	}
	return false
}

// Principal is the authenticated user as seen by every gating decision.
type Principal struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           Role   `json:"role"`
	CustomRoleID   *int64 `json:"custom_role_id,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// IsAdmin reports whether the base role is admin. Admin short-circuits every
// capability check regardless of custom role.
func (p *Principal) IsAdmin() bool {
	return p != nil && NormalizeRole(string(p.Role)) == RoleAdmin
}

// HasCustomRole reports whether a server-defined custom role is attached.
func (p *Principal) HasCustomRole() bool {
	return p != nil && p.CustomRoleID != nil
}

// BaseRole returns the normalized base role.
func (p *Principal) BaseRole() Role {
	if p == nil {
		return ""
	}
	return NormalizeRole(string(p.Role))
}

// FullName joins the name fields for display.
func (p *Principal) FullName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
