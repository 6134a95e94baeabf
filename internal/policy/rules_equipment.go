package policy

import "github.com/medref/medref/internal/shared"

func equipmentRules() *Table {
	superAdmin := Roles(shared.RoleSuperAdmin)
	hospitalAdmin := Roles(shared.RoleHospitalAdmin)

	return newTable(KindEquipment).
		on(ActionViewAny,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin, shared.RoleDoctor, shared.RoleNurse)},
		).
		on(ActionView,
			Clause{Roles: superAdmin},
			Clause{Roles: Roles(shared.RoleHospitalAdmin, shared.RoleDoctor, shared.RoleNurse), Predicate: sameFacility},
		).
		on(ActionCreate,
			Clause{Roles: superAdmin},
			Clause{Roles: hospitalAdmin, Predicate: sameFacility},
		).
		on(ActionUpdate,
			Clause{Roles: superAdmin},
			Clause{Roles: hospitalAdmin, Predicate: sameFacility},
		).
		on(ActionDelete,
			Clause{Roles: superAdmin},
			Clause{Roles: hospitalAdmin, Predicate: sameFacility},
		)
}
