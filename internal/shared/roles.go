package shared

// Role slugs known to the platform.
const (
	RoleSuperAdmin         = "super_admin"
	RoleHospitalAdmin      = "hospital_admin"
	RoleDoctor             = "doctor"
	RoleNurse              = "nurse"
	RoleDispatcher         = "dispatcher"
	RoleAmbulanceDriver    = "ambulance_driver"
	RoleAmbulanceParamedic = "ambulance_paramedic"
	RolePatient            = "patient"
)

// KnownRoles lists every role slug the rule tables are written against.
// A slug outside this list is treated as unknown and receives nothing.
func KnownRoles() []string {
	return []string{
		RoleSuperAdmin,
		RoleHospitalAdmin,
		RoleDoctor,
		RoleNurse,
		RoleDispatcher,
		RoleAmbulanceDriver,
		RoleAmbulanceParamedic,
		RolePatient,
	}
}

// IsKnownRole reports whether slug is one of KnownRoles.
func IsKnownRole(slug string) bool {
	for _, r := range KnownRoles() {
		if r == slug {
			return true
		}
	}
	return false
}
