package menu

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/plataforma-sst/accessgate/internal/shared"
)

var roleLabels = map[shared.Role]string{
	shared.RoleAdmin:      "administrador",
	shared.RoleTrainer:    "entrenador",
	shared.RoleSupervisor: "supervisor",
	shared.RoleEmployee:   "empleado",
}

var titleCaser = cases.Title(language.Spanish)

// RoleLabel returns the display label for a role, title-cased for the UI.
// Unknown roles fall back to the raw role string.
func RoleLabel(role shared.Role) string {
	label, ok := roleLabels[role]
	if !ok {
		label = string(role)
	}
	return titleCaser.String(label)
}
