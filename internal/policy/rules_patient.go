package policy

import "github.com/medref/medref/internal/shared"

func patientRules() *Table {
	clinical := Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin, shared.RoleDoctor, shared.RoleNurse)

	return newTable(KindPatient).
		on(ActionViewAny,
			Clause{Roles: clinical},
		).
		on(ActionView,
			Clause{Roles: clinical},
			Clause{Roles: Anyone(), Predicate: ownRecord},
		).
		on(ActionCreate,
			Clause{Roles: clinical},
		).
		on(ActionUpdate,
			Clause{Roles: clinical},
			Clause{Roles: Roles(shared.RolePatient), Predicate: ownRecord},
		).
		on(ActionDelete,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin)},
		).
		// Narrower than view: nurses are not listed.
		on(ActionViewMedicalRecords,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin)},
			Clause{Roles: Roles(shared.RoleDoctor), Predicate: involvedDoctor},
			Clause{Roles: Roles(shared.RolePatient), Predicate: ownRecord},
		)
}
