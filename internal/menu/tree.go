// Package menu builds the principal-visible view of the static navigation tree.
package menu

import "github.com/plataforma-sst/accessgate/internal/shared"

// Entry is one node of the static navigation tree. The tree is defined once
// and never mutated; filtering always produces fresh copies of visited nodes.
type Entry struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Icon     string        `json:"icon,omitempty"`
	Path     string        `json:"path,omitempty"`
	Roles    []shared.Role `json:"-"`
	Children []Entry       `json:"children,omitempty"`
}

// DefaultTree returns the platform's navigation tree.
func DefaultTree() []Entry {
	adminSupervisor := []shared.Role{shared.RoleAdmin, shared.RoleSupervisor}
	adminTrainer := []shared.Role{shared.RoleAdmin, shared.RoleTrainer}
	adminTrainerSupervisor := []shared.Role{shared.RoleAdmin, shared.RoleTrainer, shared.RoleSupervisor}
	employeeOnly := []shared.Role{shared.RoleEmployee}

	return []Entry{
		{
			ID:    "dashboard",
			Label: "Dashboard",
			Icon:  "dashboard",
			Children: []Entry{
				{ID: "admin-dashboard", Label: "Panel Administrativo", Icon: "admin_panel_settings", Path: "/admin/dashboard", Roles: []shared.Role{shared.RoleAdmin}},
				{ID: "trainer-dashboard", Label: "Panel Entrenador", Icon: "school", Path: "/trainer/dashboard", Roles: []shared.Role{shared.RoleTrainer}},
				{ID: "supervisor-dashboard", Label: "Panel Supervisor", Icon: "supervisor_account", Path: "/supervisor/dashboard", Roles: []shared.Role{shared.RoleSupervisor}},
				{ID: "employee-dashboard", Label: "Panel Empleado", Icon: "person", Path: "/employee/dashboard", Roles: employeeOnly},
			},
		},
		{ID: "employee-courses", Label: "Mis Cursos", Icon: "menu_book", Path: "/employee/courses", Roles: employeeOnly},
		{ID: "employee-surveys", Label: "Mis Encuestas", Icon: "poll", Path: "/employee/surveys", Roles: employeeOnly},
		{ID: "employee-evaluations", Label: "Mis Evaluaciones", Icon: "quiz", Path: "/employee/evaluations", Roles: employeeOnly},
		{ID: "employee-attendance", Label: "Mi Asistencia", Icon: "event_available", Path: "/employee/attendance", Roles: employeeOnly},
		{ID: "employee-certificates", Label: "Mis Certificados", Icon: "workspace_premium", Path: "/employee/certificates", Roles: employeeOnly},
		{
			ID:    "worker-management",
			Label: "Gestión de Trabajadores",
			Icon:  "groups",
			Roles: adminSupervisor,
			Children: []Entry{
				{ID: "workers", Label: "Trabajadores", Icon: "badge", Path: "/admin/workers", Roles: adminSupervisor},
				{ID: "worker-detail", Label: "Consulta Individual", Icon: "person_search", Path: "/admin/workers/detail", Roles: adminSupervisor},
			},
		},
		{
			ID:    "courses",
			Label: "Gestión de Cursos",
			Icon:  "auto_stories",
			Roles: adminTrainerSupervisor,
			Children: []Entry{
				{ID: "courses-list", Label: "Cursos", Icon: "menu_book", Path: "/admin/courses", Roles: adminTrainer},
				{ID: "enrollments", Label: "Inscripciones", Icon: "how_to_reg", Path: "/admin/enrollments", Roles: adminTrainerSupervisor},
				{ID: "reinduction", Label: "Reinducciones", Icon: "replay", Path: "/admin/reinduction", Roles: adminTrainerSupervisor},
			},
		},
		{
			ID:    "evaluations",
			Label: "Evaluaciones y Encuestas",
			Icon:  "fact_check",
			Roles: adminTrainer,
			Children: []Entry{
				{ID: "evaluations-list", Label: "Evaluaciones", Icon: "quiz", Path: "/admin/evaluations", Roles: adminTrainer},
				{ID: "evaluation-results", Label: "Resultados de Evaluaciones", Icon: "analytics", Path: "/admin/evaluation-results", Roles: adminTrainer},
				{ID: "surveys", Label: "Encuestas", Icon: "poll", Path: "/admin/surveys", Roles: adminTrainer},
			},
		},
		{
			ID:    "attendance",
			Label: "Asistencia",
			Icon:  "event_available",
			Roles: adminTrainerSupervisor,
			Children: []Entry{
				{ID: "attendance-list", Label: "Registro de Asistencia", Icon: "checklist", Path: "/admin/attendance", Roles: adminTrainerSupervisor},
				{ID: "admin-attendance", Label: "Gestión de Asistencia", Icon: "edit_calendar", Path: "/admin/admin-attendance", Roles: []shared.Role{shared.RoleAdmin}},
			},
		},
		{
			ID:    "health",
			Label: "Salud Ocupacional",
			Icon:  "health_and_safety",
			Roles: adminSupervisor,
			Children: []Entry{
				{ID: "occupational-exams", Label: "Exámenes Ocupacionales", Icon: "medical_services", Path: "/admin/occupational-exams", Roles: adminSupervisor},
				{ID: "seguimientos", Label: "Seguimientos", Icon: "monitor_heart", Path: "/admin/seguimientos", Roles: adminSupervisor},
				{ID: "absenteeism", Label: "Ausentismo", Icon: "person_off", Path: "/admin/absenteeism", Roles: adminSupervisor},
			},
		},
		{ID: "certificates", Label: "Certificados", Icon: "workspace_premium", Path: "/admin/certificates", Roles: adminTrainerSupervisor},
		{ID: "reports", Label: "Reportes", Icon: "summarize", Path: "/admin/reports", Roles: adminSupervisor},
		{ID: "notifications", Label: "Notificaciones", Icon: "notifications", Path: "/admin/notifications", Roles: adminTrainerSupervisor},
		{
			ID:    "administration",
			Label: "Administración",
			Icon:  "settings",
			Roles: adminSupervisor,
			Children: []Entry{
				{ID: "audit", Label: "Auditoría", Icon: "history", Path: "/admin/audit", Roles: []shared.Role{shared.RoleAdmin}},
				{ID: "config", Label: "Configuración", Icon: "tune", Path: "/admin/config", Roles: []shared.Role{shared.RoleAdmin}},
				{ID: "roles", Label: "Gestión de Roles", Icon: "manage_accounts", Path: "/admin/roles", Roles: []shared.Role{shared.RoleAdmin}},
				{ID: "users", Label: "Gestión de Usuarios", Icon: "group", Path: "/admin/users", Roles: adminSupervisor},
			},
		},
	}
}
