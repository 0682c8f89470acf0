package authz

import "github.com/plataforma-sst/accessgate/internal/shared"

// traditionalAccess maps routes to the base roles allowed for principals
// without a custom role. Routes absent from the table are open: the table is
// an explicit restriction list, not an allow list.
var traditionalAccess = map[string][]shared.Role{
	"/admin/users":              {shared.RoleAdmin, shared.RoleSupervisor},
	"/admin/roles":              {shared.RoleAdmin},
	"/admin/config":             {shared.RoleAdmin},
	"/admin/workers":            {shared.RoleAdmin, shared.RoleSupervisor},
	"/admin/audit":              {shared.RoleAdmin},
	"/admin/absenteeism":        {shared.RoleAdmin, shared.RoleSupervisor},
	"/admin/occupational-exams": {shared.RoleAdmin, shared.RoleSupervisor},
	"/admin/seguimientos":       {shared.RoleAdmin, shared.RoleSupervisor},
	"/admin/attendance":         {shared.RoleAdmin, shared.RoleTrainer, shared.RoleSupervisor},
	"/admin/admin-attendance":   {shared.RoleAdmin},
	"/admin/evaluations":        {shared.RoleAdmin, shared.RoleTrainer},
	"/admin/evaluation-results": {shared.RoleAdmin, shared.RoleTrainer},
	"/admin/surveys":            {shared.RoleAdmin, shared.RoleTrainer},
	"/admin/certificates":       {shared.RoleAdmin, shared.RoleTrainer, shared.RoleSupervisor},
	"/admin/reports":            {shared.RoleAdmin, shared.RoleSupervisor},
	"/admin/notifications":      {shared.RoleAdmin, shared.RoleTrainer, shared.RoleSupervisor},
	"/admin/reinduction":        {shared.RoleAdmin, shared.RoleTrainer, shared.RoleSupervisor},
	"/courses":                  {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer},
	"/evaluations":              {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer},
	"/reports":                  {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer},
	"/attendance":               {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer},
	"/surveys":                  {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer},
	"/certificates":             {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer},
	"/notifications":            {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer},
	"/seguimiento":              {shared.RoleAdmin, shared.RoleSupervisor},
	"/profile":                  {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer, shared.RoleEmployee},
	"/dashboard":                {shared.RoleAdmin, shared.RoleSupervisor, shared.RoleTrainer, shared.RoleEmployee},
}

// pageCheck describes how a route is gated for custom-role principals: by one
// capability, by an admin-only rule, or open to any authenticated principal.
type pageCheck struct {
	capability string
	adminOnly  bool
	open       bool
}

// routeCapabilities maps routes to their gating capability for custom-role
// principals. Routes absent here fall back to the page grant list.
var routeCapabilities = map[string]pageCheck{
	"/admin/users": {capability: "canUpdateUsers"},
	"/users":       {capability: "canViewUsersPage"},

	"/courses":        {capability: "canViewCoursesPage"},
	"/courses/list":   {capability: "canViewCoursesPage"},
	"/courses/create": {capability: "canCreateCourses"},
	"/courses/edit":   {capability: "canUpdateCourses"},

	"/enrollments":        {capability: "canViewEnrollmentPage"},
	"/enrollments/list":   {capability: "canViewEnrollmentPage"},
	"/enrollments/create": {capability: "canCreateEnrollment"},
	"/enrollments/edit":   {capability: "canUpdateEnrollment"},
	"/admin/enrollments":  {capability: "canUpdateEnrollment"},
	"/reinduction":        {capability: "canViewReinductionPage"},

	"/evaluations":        {capability: "canViewEvaluationsPage"},
	"/evaluations/list":   {capability: "canViewEvaluationsPage"},
	"/evaluations/create": {capability: "canCreateEvaluations"},
	"/evaluations/edit":   {capability: "canUpdateEvaluations"},
	"/evaluation-results": {capability: "canViewEvaluationsPage"},

	"/surveys":        {capability: "canViewSurveysPage"},
	"/surveys/create": {capability: "canCreateSurveys"},
	"/surveys/edit":   {capability: "canUpdateSurveys"},

	"/attendance":       {capability: "canViewAttendancePage"},
	"/attendance/list":  {capability: "canViewAttendancePage"},
	"/admin/attendance": {capability: "canUpdateAttendance"},

	"/workers":                  {capability: "canViewWorkersPage"},
	"/workers/list":             {capability: "canViewWorkersPage"},
	"/workers/create":           {capability: "canCreateWorkers"},
	"/workers/edit":             {capability: "canUpdateWorkers"},
	"/admin/workers":            {capability: "canViewWorkersPage"},
	"/occupational-exams":       {capability: "canViewOccupationalExamPage"},
	"/admin/occupational-exams": {capability: "canViewOccupationalExamPage"},
	"/seguimientos":             {capability: "canViewSeguimientoPage"},

	"/certificates":        {capability: "canViewCertificatesPage"},
	"/certificates/create": {capability: "canCreateCertificates"},

	"/reports":        {capability: "canViewReportsPage"},
	"/reports/export": {capability: "canViewReportsPage"},

	"/notifications": {capability: "canViewNotificationsPage"},

	"/admin/audit":  {adminOnly: true},
	"/admin/config": {adminOnly: true},
	"/admin/roles":  {adminOnly: true},

	"/dashboard": {open: true},
	"/profile":   {open: true},
}

// CanAccessPage resolves access for one concrete route. Principals without a
// custom role are governed by the traditional role table, open by default for
// unmapped routes. Custom-role principals consult the route capability map and
// fall back to the page grant list, closed by default for unmapped routes.
func CanAccessPage(route string, p *shared.Principal, snap Snapshot) bool {
	if p == nil {
		return false
	}

	if !p.HasCustomRole() {
		allowed, mapped := traditionalAccess[route]
		if !mapped {
			return true
		}
		role := p.BaseRole()
		for _, candidate := range allowed {
			if candidate == role {
				return true
			}
		}
		return false
	}

	if check, ok := routeCapabilities[route]; ok {
		switch {
		case check.open:
			return true
		case check.adminOnly:
			return p.IsAdmin()
		default:
			return snap.Capabilities.Allowed(check.capability)
		}
	}

	for _, grant := range snap.Grants {
		if grant.PageRoute == route {
			return grant.CanAccess
		}
	}
	return false
}
