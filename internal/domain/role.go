package domain

// Role classifies a user profile for authorization decisions. The values
// mirror the tipo_usuario column, which predates this service and mixes
// Spanish casing conventions.
type Role string

const (
	RoleAlumno         Role = "Alumno"
	RoleMaestro        Role = "Maestro"
	RoleAdministrativo Role = "Administrativo"
	RoleSoporte        Role = "Soporte"
	RoleAdministrador  Role = "Administrador"

	// legacyRoleEstudiante is an older spelling of RoleAlumno still present
	// in rows created before the role names were consolidated.
	legacyRoleEstudiante Role = "estudiante"
)

// NormalizeRole maps legacy spellings onto the canonical role set.
// Unknown values pass through unchanged; they simply match no allow-list.
func NormalizeRole(raw string) Role {
	if Role(raw) == legacyRoleEstudiante {
		return RoleAlumno
	}
	return Role(raw)
}

// RestrictedReporterRoles only ever see tickets they reported themselves.
var RestrictedReporterRoles = map[Role]struct{}{
	RoleAlumno:  {},
	RoleMaestro: {},
}

// TicketUpdateRoles may reassign tickets or change their status.
var TicketUpdateRoles = map[Role]struct{}{
	RoleAdministrativo: {},
	RoleMaestro:        {},
	RoleSoporte:        {},
}

// AssignableStaffRoles appear in the assignable-staff listing.
var AssignableStaffRoles = []Role{
	RoleAdministrativo,
	RoleMaestro,
	RoleSoporte,
	RoleAdministrador,
}

// IsRestrictedReporter reports whether the role only sees its own tickets.
func (r Role) IsRestrictedReporter() bool {
	_, ok := RestrictedReporterRoles[r]
	return ok
}

// CanUpdateTickets reports whether the role may mutate tickets.
func (r Role) CanUpdateTickets() bool {
	_, ok := TicketUpdateRoles[r]
	return ok
}
