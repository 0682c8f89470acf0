package routeguard

import (
	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Rule gates one route pattern. Patterns may contain ":param" segments which
// match any single path segment. The first matching rule wins; routes matched
// by no rule are allowed.
type Rule struct {
	Pattern              string
	Name                 string
	RequiredCapabilities []string
	AllowedRoles         []shared.Role
	Check                func(caps authz.CapabilitySet, p *shared.Principal) bool
}

func viewCheck(key string) func(authz.CapabilitySet, *shared.Principal) bool {
	return func(caps authz.CapabilitySet, _ *shared.Principal) bool {
		return caps.Allowed(key)
	}
}

// DefaultRules returns the static rule registry for the platform's pages.
func DefaultRules() []Rule {
	adminOnly := []shared.Role{shared.RoleAdmin}
	adminSupervisor := []shared.Role{shared.RoleAdmin, shared.RoleSupervisor}
	adminTrainer := []shared.Role{shared.RoleAdmin, shared.RoleTrainer}
	adminTrainerSupervisor := []shared.Role{shared.RoleAdmin, shared.RoleTrainer, shared.RoleSupervisor}
	employeeOnly := []shared.Role{shared.RoleEmployee}

	return []Rule{
		// Dashboards
		{Pattern: "/admin/dashboard", Name: "Panel de Administración", AllowedRoles: adminOnly},
		{Pattern: "/trainer/dashboard", Name: "Panel de Entrenador", AllowedRoles: []shared.Role{shared.RoleTrainer}},
		{Pattern: "/supervisor/dashboard", Name: "Panel de Supervisor", AllowedRoles: []shared.Role{shared.RoleSupervisor}},
		{Pattern: "/employee/dashboard", Name: "Panel de Empleado", AllowedRoles: employeeOnly},

		// User management
		{
			Pattern:              "/admin/users",
			Name:                 "Gestión de Usuarios",
			RequiredCapabilities: []string{"canViewUsersPage"},
			AllowedRoles:         adminSupervisor,
			Check: func(caps authz.CapabilitySet, p *shared.Principal) bool {
				if p.IsAdmin() {
					return true
				}
				return caps.Allowed("canViewUsersPage")
			},
		},

		// Worker management
		{Pattern: "/admin/workers", Name: "Gestión de Trabajadores", RequiredCapabilities: []string{"canViewWorkersPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewWorkersPage")},
		{Pattern: "/admin/workers/detail", Name: "Búsqueda de Trabajadores", RequiredCapabilities: []string{"canViewWorkersPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewWorkersPage")},
		{Pattern: "/admin/workers/vacations", Name: "Vacaciones de Trabajadores", RequiredCapabilities: []string{"canViewWorkersPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewWorkersPage")},
		{Pattern: "/admin/workers/:workerId", Name: "Detalle de Trabajador", RequiredCapabilities: []string{"canViewWorkersPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewWorkersPage")},
		{Pattern: "/admin/workers/:workerId/vacations", Name: "Gestión de Vacaciones", RequiredCapabilities: []string{"canViewWorkersPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewWorkersPage")},

		// Course management
		{Pattern: "/admin/courses", Name: "Gestión de Cursos", RequiredCapabilities: []string{"canViewCoursesPage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewCoursesPage")},
		{Pattern: "/admin/interactive-lessons", Name: "Lecciones Interactivas", RequiredCapabilities: []string{"canViewCoursesPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewCoursesPage")},
		{Pattern: "/admin/module/:moduleId/lesson/new", Name: "Nueva Lección Interactiva", RequiredCapabilities: []string{"canViewCoursesPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewCoursesPage")},
		{Pattern: "/admin/lesson/:lessonId/edit", Name: "Editar Lección Interactiva", RequiredCapabilities: []string{"canViewCoursesPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewCoursesPage")},
		{Pattern: "/admin/lesson/:lessonId/preview", Name: "Vista previa de Lección", RequiredCapabilities: []string{"canViewCoursesPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewCoursesPage")},
		{
			Pattern:              "/admin/enrollments",
			Name:                 "Gestión de Inscripciones",
			RequiredCapabilities: []string{"canViewCoursesPage"},
			AllowedRoles:         adminTrainerSupervisor,
			Check: func(caps authz.CapabilitySet, _ *shared.Principal) bool {
				return caps.Allowed("canViewCoursesPage") || caps.Allowed("canViewEnrollmentPage")
			},
		},

		// Employee self-service
		{Pattern: "/employee/courses", Name: "Mis Cursos", AllowedRoles: employeeOnly},
		{Pattern: "/employee/courses/:id", Name: "Detalle del Curso", AllowedRoles: employeeOnly},
		{Pattern: "/employee/courses/:id/evaluation", Name: "Evaluación del Curso", AllowedRoles: employeeOnly},
		{Pattern: "/employee/courses/:id/surveys", Name: "Encuestas del Curso", AllowedRoles: employeeOnly},
		{Pattern: "/employee/evaluations", Name: "Mis Evaluaciones", AllowedRoles: employeeOnly},
		{Pattern: "/employee/surveys", Name: "Mis Encuestas", AllowedRoles: employeeOnly},
		{Pattern: "/employee/certificates", Name: "Mis Certificados", AllowedRoles: employeeOnly},
		{Pattern: "/employee/attendance", Name: "Mi Asistencia", AllowedRoles: employeeOnly},
		{Pattern: "/employee/vacations", Name: "Mis Vacaciones", AllowedRoles: employeeOnly},
		{Pattern: "/employee/votings", Name: "Mis Votaciones", AllowedRoles: employeeOnly},

		// Evaluations and surveys
		{Pattern: "/admin/evaluations", Name: "Gestión de Evaluaciones", RequiredCapabilities: []string{"canViewEvaluationsPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewEvaluationsPage")},
		{Pattern: "/admin/evaluation-results", Name: "Resultados de Evaluaciones", RequiredCapabilities: []string{"canViewEvaluationsPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewEvaluationsPage")},
		{Pattern: "/admin/surveys", Name: "Gestión de Encuestas", RequiredCapabilities: []string{"canViewSurveysPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewSurveysPage")},
		{Pattern: "/admin/survey-tabulation", Name: "Tabulación de Encuestas", RequiredCapabilities: []string{"canViewSurveysPage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewSurveysPage")},
		{Pattern: "/admin/homework-assessments", Name: "Evaluaciones de Trabajo en Casa", RequiredCapabilities: []string{"canViewEvaluationsPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewEvaluationsPage")},

		// Progress and tracking
		{Pattern: "/admin/progress", Name: "Progreso de Usuarios", RequiredCapabilities: []string{"canViewProgressPage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewProgressPage")},
		{Pattern: "/admin/user-progress", Name: "Progreso Detallado", RequiredCapabilities: []string{"canViewProgressPage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewProgressPage")},

		// Attendance
		{Pattern: "/admin/attendance", Name: "Gestión de Asistencia", RequiredCapabilities: []string{"canViewAttendancePage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewAttendancePage")},

		// Occupational health
		{Pattern: "/admin/occupational-exams", Name: "Exámenes Ocupacionales", RequiredCapabilities: []string{"canViewOccupationalExamPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewOccupationalExamPage")},
		{Pattern: "/admin/seguimientos", Name: "Seguimientos", RequiredCapabilities: []string{"canViewSeguimientoPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewSeguimientoPage")},
		{Pattern: "/admin/reinduction", Name: "Reinducciones", RequiredCapabilities: []string{"canViewReinductionPage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewReinductionPage")},
		{Pattern: "/admin/absenteeism", Name: "Gestión de Ausentismo", RequiredCapabilities: []string{"canViewAbsenteeismPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewAbsenteeismPage")},

		// Certificates, reports, notifications
		{Pattern: "/admin/certificates", Name: "Gestión de Certificados", RequiredCapabilities: []string{"canViewCertificatesPage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewCertificatesPage")},
		{Pattern: "/admin/reports", Name: "Reportes", RequiredCapabilities: []string{"canViewReportsPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewReportsPage")},
		{Pattern: "/admin/notifications", Name: "Gestión de Notificaciones", RequiredCapabilities: []string{"canViewNotificationsPage"}, AllowedRoles: adminTrainerSupervisor, Check: viewCheck("canViewNotificationsPage")},
		{Pattern: "/admin/notification-acknowledgment", Name: "Confirmación de Notificaciones", RequiredCapabilities: []string{"canViewNotificationsPage"}, AllowedRoles: adminOnly, Check: viewCheck("canViewNotificationsPage")},

		// Administration
		{Pattern: "/admin/config", Name: "Configuración del Sistema", RequiredCapabilities: []string{"canViewAdminConfigPage"}, AllowedRoles: adminOnly, Check: viewCheck("canViewAdminConfigPage")},
		{Pattern: "/admin/roles", Name: "Gestión de Roles", RequiredCapabilities: []string{"canViewRolesPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewRolesPage")},
		{Pattern: "/admin/audit", Name: "Auditoría", RequiredCapabilities: []string{"canViewAdminConfigPage"}, AllowedRoles: adminOnly, Check: viewCheck("canViewAdminConfigPage")},
		{Pattern: "/admin/files", Name: "Gestión de Archivos", RequiredCapabilities: []string{"canViewFilesPage"}, AllowedRoles: adminTrainer, Check: viewCheck("canViewFilesPage")},
		{Pattern: "/admin/suppliers", Name: "Gestión de Proveedores", RequiredCapabilities: []string{"canViewSuppliersPage"}, AllowedRoles: adminSupervisor, Check: viewCheck("canViewSuppliersPage")},

		// Open to every authenticated principal
		{Pattern: "/profile", Name: "Perfil de Usuario", AllowedRoles: []shared.Role{shared.RoleAdmin, shared.RoleTrainer, shared.RoleSupervisor, shared.RoleEmployee}},
	}
}
