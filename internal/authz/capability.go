// Package authz resolves the capability set and page grants for a principal,
// delegating individual permission checks to the upstream authorization service.
package authz

// Binding ties one named capability to the upstream resource+action pair that
// backs it.
type Binding struct {
	Key      string
	Resource string
	Action   string
}

// The catalog is fixed and enumerable: one page-view capability per page plus
// create/read/update/delete per resource, and submit for evaluations and surveys.
var catalog = buildCatalog()

var catalogKeys = func() map[string]struct{} {
	keys := make(map[string]struct{}, len(catalog))
	for _, b := range catalog {
		keys[b.Key] = struct{}{}
	}
	return keys
}()

func buildCatalog() []Binding {
	pages := []Binding{
		{Key: "canViewUsersPage", Resource: "users", Action: "view"},
		{Key: "canViewCoursesPage", Resource: "courses", Action: "view"},
		{Key: "canViewEvaluationsPage", Resource: "evaluations", Action: "view"},
		{Key: "canViewSurveysPage", Resource: "surveys", Action: "view"},
		{Key: "canViewCertificatesPage", Resource: "certificates", Action: "view"},
		{Key: "canViewAttendancePage", Resource: "attendance", Action: "view"},
		{Key: "canViewReportsPage", Resource: "reports", Action: "view"},
		{Key: "canViewNotificationsPage", Resource: "notifications", Action: "view"},
		{Key: "canViewWorkersPage", Resource: "workers", Action: "view"},
		{Key: "canViewReinductionPage", Resource: "reinduction", Action: "view"},
		{Key: "canViewAdminConfigPage", Resource: "admin_config", Action: "view"},
		{Key: "canViewSeguimientoPage", Resource: "seguimiento", Action: "view"},
		{Key: "canViewRolesPage", Resource: "roles", Action: "view"},
		{Key: "canViewFilesPage", Resource: "files", Action: "view"},
		{Key: "canViewDashboardPage", Resource: "dashboard", Action: "view"},
		{Key: "canViewProfilePage", Resource: "profile", Action: "view"},
		{Key: "canViewAuditPage", Resource: "audit", Action: "view"},
		{Key: "canViewAbsenteeismPage", Resource: "absenteeism", Action: "view"},
		{Key: "canViewEnrollmentPage", Resource: "enrollment", Action: "view"},
		{Key: "canViewOccupationalExamPage", Resource: "occupational_exam", Action: "view"},
		{Key: "canViewProgressPage", Resource: "progress", Action: "view"},
		{Key: "canViewSuppliersPage", Resource: "suppliers", Action: "view"},
		{Key: "canViewModulesPage", Resource: "modules", Action: "view"},
		{Key: "canViewMaterialsPage", Resource: "materials", Action: "view"},
	}

	type crudResource struct {
		name     string
		resource string
	}
	crud := []crudResource{
		{"Users", "users"},
		{"Courses", "courses"},
		{"Evaluations", "evaluations"},
		{"Surveys", "surveys"},
		{"Certificates", "certificates"},
		{"Attendance", "attendance"},
		{"Reports", "reports"},
		{"Notifications", "notifications"},
		{"Workers", "workers"},
		{"Reinduction", "reinduction"},
		{"AdminConfig", "admin_config"},
		{"Seguimiento", "seguimiento"},
		{"Roles", "roles"},
		{"Files", "files"},
		{"Enrollment", "enrollment"},
		{"OccupationalExam", "occupational_exam"},
		{"Progress", "progress"},
		{"Modules", "modules"},
		{"Materials", "materials"},
	}

	bindings := make([]Binding, 0, len(pages)+len(crud)*4+2)
	bindings = append(bindings, pages...)
	for _, res := range crud {
		bindings = append(bindings,
			Binding{Key: "canCreate" + res.name, Resource: res.resource, Action: "create"},
			Binding{Key: "canRead" + res.name, Resource: res.resource, Action: "read"},
			Binding{Key: "canUpdate" + res.name, Resource: res.resource, Action: "update"},
			Binding{Key: "canDelete" + res.name, Resource: res.resource, Action: "delete"},
		)
	}
	bindings = append(bindings,
		Binding{Key: "canSubmitEvaluations", Resource: "evaluations", Action: "submit"},
		Binding{Key: "canSubmitSurveys", Resource: "surveys", Action: "submit"},
	)
	return bindings
}

// Catalog returns a copy of the full capability catalog.
func Catalog() []Binding {
	out := make([]Binding, len(catalog))
	copy(out, catalog)
	return out
}

// KnownCapability reports whether key belongs to the catalog.
func KnownCapability(key string) bool {
	_, ok := catalogKeys[key]
	return ok
}

// CapabilitySet maps capability names to resolved booleans. Missing keys read
// as false.
type CapabilitySet map[string]bool

// Allowed reports the resolved value for one capability, false when absent.
func (c CapabilitySet) Allowed(key string) bool {
	return c[key]
}

// AllTrue returns a set granting every catalog capability.
func AllTrue() CapabilitySet {
	set := make(CapabilitySet, len(catalog))
	for _, b := range catalog {
		set[b.Key] = true
	}
	return set
}

// AllFalse returns a set denying every catalog capability.
func AllFalse() CapabilitySet {
	set := make(CapabilitySet, len(catalog))
	for _, b := range catalog {
		set[b.Key] = false
	}
	return set
}
