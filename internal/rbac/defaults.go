package rbac

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/medref/medref/internal/shared"
)

// SourceDefaults names the built-in role table.
const SourceDefaults = "defaults"

var titleCaser = cases.Title(language.English)

// DisplayName derives a human label from a role slug.
func DisplayName(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "_", " "))
}

// DefaultRoles returns the built-in role definitions. Every role except
// super_admin spells out its permissions; none is derived from another.
func DefaultRoles() []Role {
	personal := []string{shared.PermProfileView, shared.PermProfileUpdate}

	return []Role{
		{
			Slug:        shared.RoleSuperAdmin,
			Level:       100,
			Color:       "red",
			Icon:        "shield-check",
			Permissions: shared.AllScopes(),
		},
		{
			Slug:  shared.RoleHospitalAdmin,
			Level: 90,
			Color: "purple",
			Icon:  "building-office",
			Permissions: append([]string{
				shared.PermUsersView,
				shared.PermUsersCreate,
				shared.PermUsersUpdate,
				shared.PermUsersDelete,
				shared.PermUsersResetPassword,
				shared.PermPatientsView,
				shared.PermPatientsCreate,
				shared.PermPatientsUpdate,
				shared.PermPatientsDelete,
				shared.PermPatientsViewMedicalRecords,
				shared.PermReferralsView,
				shared.PermReferralsCreate,
				shared.PermReferralsUpdate,
				shared.PermReferralsDelete,
				shared.PermFacilitiesView,
				shared.PermFacilitiesUpdate,
				shared.PermEquipmentView,
				shared.PermEquipmentManage,
				shared.PermAmbulancesView,
				shared.PermAmbulancesCreate,
				shared.PermAmbulancesUpdate,
				shared.PermAmbulancesTrack,
				shared.PermAmbulancesManageCrew,
				shared.PermEmergencyView,
				shared.PermEmergencyDispatch,
				shared.PermChatAccess,
				shared.PermNotificationsSend,
				shared.PermReportsView,
				shared.PermReportsExport,
				shared.PermAnalyticsView,
			}, personal...),
		},
		{
			Slug:  shared.RoleDoctor,
			Level: 70,
			Color: "blue",
			Icon:  "user-doctor",
			Permissions: append([]string{
				shared.PermPatientsView,
				shared.PermPatientsCreate,
				shared.PermPatientsUpdate,
				shared.PermPatientsViewMedicalRecords,
				shared.PermReferralsView,
				shared.PermReferralsCreate,
				shared.PermReferralsUpdate,
				shared.PermReferralsAccept,
				shared.PermReferralsReject,
				shared.PermFacilitiesView,
				shared.PermEquipmentView,
				shared.PermAmbulancesView,
				shared.PermEmergencyView,
				shared.PermChatAccess,
				shared.PermReportsView,
			}, personal...),
		},
		{
			Slug:  shared.RoleDispatcher,
			Level: 55,
			Color: "orange",
			Icon:  "radio",
			Permissions: append([]string{
				shared.PermReferralsView,
				shared.PermFacilitiesView,
				shared.PermAmbulancesView,
				shared.PermAmbulancesUpdate,
				shared.PermAmbulancesTrack,
				shared.PermAmbulancesManageCrew,
				shared.PermEmergencyView,
				shared.PermEmergencyDispatch,
				shared.PermEmergencyUpdateLocation,
				shared.PermEmergencyClose,
				shared.PermChatAccess,
				shared.PermChatBroadcast,
				shared.PermNotificationsSend,
				shared.PermReportsView,
			}, personal...),
		},
		{
			Slug:  shared.RoleNurse,
			Level: 50,
			Color: "green",
			Icon:  "heart-pulse",
			Permissions: append([]string{
				shared.PermPatientsView,
				shared.PermPatientsCreate,
				shared.PermPatientsUpdate,
				shared.PermReferralsView,
				shared.PermReferralsCreate,
				shared.PermReferralsUpdate,
				shared.PermFacilitiesView,
				shared.PermEquipmentView,
				shared.PermEmergencyView,
				shared.PermChatAccess,
			}, personal...),
		},
		{
			Slug:  shared.RoleAmbulanceParamedic,
			Level: 45,
			Color: "teal",
			Icon:  "kit-medical",
			Permissions: append([]string{
				shared.PermPatientsView,
				shared.PermReferralsView,
				shared.PermAmbulancesView,
				shared.PermAmbulancesTrack,
				shared.PermEmergencyView,
				shared.PermEmergencyUpdateLocation,
				shared.PermChatAccess,
			}, personal...),
		},
		{
			Slug:  shared.RoleAmbulanceDriver,
			Level: 40,
			Color: "yellow",
			Icon:  "truck-medical",
			Permissions: append([]string{
				shared.PermReferralsView,
				shared.PermAmbulancesView,
				shared.PermAmbulancesTrack,
				shared.PermEmergencyView,
				shared.PermEmergencyUpdateLocation,
				shared.PermChatAccess,
			}, personal...),
		},
		{
			Slug:  shared.RolePatient,
			Level: 10,
			Color: "gray",
			Icon:  "user",
			Permissions: append([]string{
				shared.PermMedicalHistoryViewOwn,
				shared.PermChatAccess,
			}, personal...),
		},
	}
}

// DefaultTable builds the table for DefaultRoles. It panics only if the
// built-in definitions are themselves inconsistent.
func DefaultTable() *Table {
	t, err := NewTable(SourceDefaults, DefaultRoles())
	if err != nil {
		panic(err)
	}
	return t
}
