package shared

// Facility and equipment permissions.
const (
	PermFacilitiesView   = "facilities.view"
	PermFacilitiesCreate = "facilities.create"
	PermFacilitiesUpdate = "facilities.update"
	PermFacilitiesDelete = "facilities.delete"
	PermEquipmentView    = "equipment.view"
	PermEquipmentManage  = "equipment.manage"
)

// FacilityScopes lists all facility management permissions.
func FacilityScopes() []string {
	return []string{
		PermFacilitiesView,
		PermFacilitiesCreate,
		PermFacilitiesUpdate,
		PermFacilitiesDelete,
		PermEquipmentView,
		PermEquipmentManage,
	}
}
