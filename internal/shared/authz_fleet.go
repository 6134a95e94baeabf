package shared

// Ambulance fleet permissions.
const (
	PermAmbulancesView       = "ambulances.view"
	PermAmbulancesCreate     = "ambulances.create"
	PermAmbulancesUpdate     = "ambulances.update"
	PermAmbulancesDelete     = "ambulances.delete"
	PermAmbulancesTrack      = "ambulances.track"
	PermAmbulancesManageCrew = "ambulances.manage_crew"
)

// Emergency dispatch permissions.
const (
	PermEmergencyView           = "emergency.view"
	PermEmergencyDispatch       = "emergency.dispatch"
	PermEmergencyUpdateLocation = "emergency.update_location"
	PermEmergencyClose          = "emergency.close"
)

// AmbulanceScopes lists all ambulance management permissions.
func AmbulanceScopes() []string {
	return []string{
		PermAmbulancesView,
		PermAmbulancesCreate,
		PermAmbulancesUpdate,
		PermAmbulancesDelete,
		PermAmbulancesTrack,
		PermAmbulancesManageCrew,
	}
}

// EmergencyScopes lists all emergency management permissions.
func EmergencyScopes() []string {
	return []string{
		PermEmergencyView,
		PermEmergencyDispatch,
		PermEmergencyUpdateLocation,
		PermEmergencyClose,
	}
}
