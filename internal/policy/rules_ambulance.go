package policy

import "github.com/medref/medref/internal/shared"

func ambulanceRules() *Table {
	crew := Roles(shared.RoleAmbulanceDriver, shared.RoleAmbulanceParamedic)
	control := Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin, shared.RoleDispatcher)

	return newTable(KindAmbulance).
		on(ActionViewAny,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin, shared.RoleDispatcher, shared.RoleAmbulanceDriver, shared.RoleAmbulanceParamedic)},
		).
		on(ActionView,
			Clause{Roles: control},
			Clause{Roles: crew, Predicate: crewOf},
		).
		on(ActionCreate,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin)},
		).
		on(ActionUpdate,
			Clause{Roles: control},
		).
		on(ActionDelete,
			Clause{Roles: Roles(shared.RoleSuperAdmin)},
		).
		on(ActionDispatch,
			Clause{Roles: control},
		).
		on(ActionUpdateLocation,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleDispatcher)},
			Clause{Roles: crew, Predicate: crewOf},
		).
		on(ActionViewTracking,
			Clause{Roles: control},
			Clause{Roles: crew, Predicate: crewOf},
		).
		on(ActionManageCrew,
			Clause{Roles: control},
		)
}
