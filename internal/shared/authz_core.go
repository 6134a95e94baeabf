package shared

// Category groups permissions for presentation and seeding.
type Category string

// Permission categories.
const (
	CategoryUserManagement      Category = "user_management"
	CategoryPatientManagement   Category = "patient_management"
	CategoryReferralManagement  Category = "referral_management"
	CategoryFacilityManagement  Category = "facility_management"
	CategoryAmbulanceManagement Category = "ambulance_management"
	CategoryEmergencyManagement Category = "emergency_management"
	CategoryCommunication       Category = "communication"
	CategoryReporting           Category = "reporting"
	CategorySystem              Category = "system"
	CategoryPersonal            Category = "personal"
)

// User management permissions.
const (
	PermUsersView          = "users.view"
	PermUsersCreate        = "users.create"
	PermUsersUpdate        = "users.update"
	PermUsersDelete        = "users.delete"
	PermUsersManageRoles   = "users.manage_roles"
	PermUsersResetPassword = "users.reset_password"
)

// System permissions.
const (
	PermSystemSettings = "system.settings"
	PermSystemRoles    = "system.roles"
	PermSystemAudit    = "system.audit"
)

// Personal permissions granted to every authenticated account.
const (
	PermProfileView           = "profile.view"
	PermProfileUpdate         = "profile.update"
	PermMedicalHistoryViewOwn = "medical_history.view_own"
)

// UserScopes lists all user management permissions.
func UserScopes() []string {
	return []string{
		PermUsersView,
		PermUsersCreate,
		PermUsersUpdate,
		PermUsersDelete,
		PermUsersManageRoles,
		PermUsersResetPassword,
	}
}

// SystemScopes lists all system permissions.
func SystemScopes() []string {
	return []string{
		PermSystemSettings,
		PermSystemRoles,
		PermSystemAudit,
	}
}

// PersonalScopes lists all personal permissions.
func PersonalScopes() []string {
	return []string{
		PermProfileView,
		PermProfileUpdate,
		PermMedicalHistoryViewOwn,
	}
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryUserManagement,
		CategoryPatientManagement,
		CategoryReferralManagement,
		CategoryFacilityManagement,
		CategoryAmbulanceManagement,
		CategoryEmergencyManagement,
		CategoryCommunication,
		CategoryReporting,
		CategorySystem,
		CategoryPersonal,
	}
}

// ScopesFor returns the permissions declared for a category.
func ScopesFor(c Category) []string {
	switch c {
	case CategoryUserManagement:
		return UserScopes()
	case CategoryPatientManagement:
		return PatientScopes()
	case CategoryReferralManagement:
		return ReferralScopes()
	case CategoryFacilityManagement:
		return FacilityScopes()
	case CategoryAmbulanceManagement:
		return AmbulanceScopes()
	case CategoryEmergencyManagement:
		return EmergencyScopes()
	case CategoryCommunication:
		return CommunicationScopes()
	case CategoryReporting:
		return ReportingScopes()
	case CategorySystem:
		return SystemScopes()
	case CategoryPersonal:
		return PersonalScopes()
	default:
		return nil
	}
}

// AllScopes lists the full permission catalog in category order.
func AllScopes() []string {
	var all []string
	for _, c := range Categories() {
		all = append(all, ScopesFor(c)...)
	}
	return all
}

// CategoryOf reports the category a permission belongs to.
func CategoryOf(perm string) (Category, bool) {
	for _, c := range Categories() {
		for _, p := range ScopesFor(c) {
			if p == perm {
				return c, true
			}
		}
	}
	return "", false
}
