package shared

// Patient permissions.
const (
	PermPatientsView               = "patients.view"
	PermPatientsCreate             = "patients.create"
	PermPatientsUpdate             = "patients.update"
	PermPatientsDelete             = "patients.delete"
	PermPatientsViewMedicalRecords = "patients.view_medical_records"
)

// Referral permissions.
const (
	PermReferralsView   = "referrals.view"
	PermReferralsCreate = "referrals.create"
	PermReferralsUpdate = "referrals.update"
	PermReferralsDelete = "referrals.delete"
	PermReferralsAccept = "referrals.accept"
	PermReferralsReject = "referrals.reject"
)

// PatientScopes lists all patient management permissions.
func PatientScopes() []string {
	return []string{
		PermPatientsView,
		PermPatientsCreate,
		PermPatientsUpdate,
		PermPatientsDelete,
		PermPatientsViewMedicalRecords,
	}
}

// ReferralScopes lists all referral management permissions.
func ReferralScopes() []string {
	return []string{
		PermReferralsView,
		PermReferralsCreate,
		PermReferralsUpdate,
		PermReferralsDelete,
		PermReferralsAccept,
		PermReferralsReject,
	}
}
