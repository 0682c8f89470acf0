package menu

import (
	"fmt"

	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Predicate reports whether one menu entry is visible for a principal holding
// a custom role, given its resolved capability set.
type Predicate func(caps authz.CapabilitySet, p *shared.Principal) bool

// PredicateSet maps entry IDs to visibility predicates. Entries without a
// predicate fall back to role membership.
type PredicateSet map[string]Predicate

// NewPredicateSet validates that every predicate references an entry that
// exists in the tree. An unknown ID is a wiring bug, not runtime input.
func NewPredicateSet(tree []Entry, preds map[string]Predicate) (PredicateSet, error) {
	known := map[string]bool{}
	var walk func(entries []Entry)
	walk = func(entries []Entry) {
		for _, e := range entries {
			known[e.ID] = true
			walk(e.Children)
		}
	}
	walk(tree)

	for id := range preds {
		if !known[id] {
			return nil, fmt.Errorf("menu: predicate for unknown entry %q", id)
		}
	}
	return PredicateSet(preds), nil
}

func capCheck(key string) Predicate {
	return func(caps authz.CapabilitySet, _ *shared.Principal) bool {
		return caps.Allowed(key)
	}
}

func roleIs(role shared.Role) Predicate {
	return func(_ authz.CapabilitySet, p *shared.Principal) bool {
		return p.BaseRole() == role
	}
}

func always(_ authz.CapabilitySet, _ *shared.Principal) bool { return true }

// DefaultPredicates returns the visibility predicates applied to principals
// with a custom role.
func DefaultPredicates() map[string]Predicate {
	return map[string]Predicate{
		"dashboard":      always,
		"administration": always,

		"admin-dashboard":      roleIs(shared.RoleAdmin),
		"trainer-dashboard":    roleIs(shared.RoleTrainer),
		"supervisor-dashboard": roleIs(shared.RoleSupervisor),
		"employee-dashboard":   roleIs(shared.RoleEmployee),

		"employee-courses":      roleIs(shared.RoleEmployee),
		"employee-surveys":      roleIs(shared.RoleEmployee),
		"employee-evaluations":  roleIs(shared.RoleEmployee),
		"employee-attendance":   roleIs(shared.RoleEmployee),
		"employee-certificates": roleIs(shared.RoleEmployee),

		"worker-management": capCheck("canViewWorkersPage"),
		"workers":           capCheck("canViewWorkersPage"),
		"worker-detail":     capCheck("canViewWorkersPage"),

		"courses":      capCheck("canViewCoursesPage"),
		"courses-list": capCheck("canViewCoursesPage"),
		"enrollments":  capCheck("canViewCoursesPage"),
		"reinduction":  capCheck("canViewReinductionPage"),

		"evaluations":        capCheck("canViewEvaluationsPage"),
		"evaluations-list":   capCheck("canViewEvaluationsPage"),
		"evaluation-results": capCheck("canViewEvaluationsPage"),
		"surveys":            capCheck("canViewSurveysPage"),

		"attendance":       capCheck("canViewAttendancePage"),
		"attendance-list":  capCheck("canViewAttendancePage"),
		"admin-attendance": capCheck("canUpdateAttendance"),

		"health": func(caps authz.CapabilitySet, _ *shared.Principal) bool {
			return caps.Allowed("canViewOccupationalExamPage") || caps.Allowed("canViewSeguimientoPage")
		},
		"occupational-exams": capCheck("canViewOccupationalExamPage"),
		"seguimientos":       capCheck("canViewSeguimientoPage"),
		"absenteeism":        capCheck("canViewAbsenteeismPage"),

		"certificates":  capCheck("canViewCertificatesPage"),
		"reports":       capCheck("canViewReportsPage"),
		"notifications": capCheck("canViewNotificationsPage"),

		"audit":  roleIs(shared.RoleAdmin),
		"config": capCheck("canViewAdminConfigPage"),
		"roles":  roleIs(shared.RoleAdmin),
		"users":  capCheck("canUpdateUsers"),
	}
}
