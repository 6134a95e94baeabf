package policy

// Kind names a resource variant.
type Kind string

// Resource kinds covered by the rule tables.
const (
	KindAmbulance Kind = "ambulance"
	KindPatient   Kind = "patient"
	KindReferral  Kind = "referral"
	KindUser      Kind = "user"
	KindEquipment Kind = "equipment"
)

// Kinds returns every resource kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindAmbulance, KindPatient, KindReferral, KindUser, KindEquipment}
}

// Resource is a hydrated snapshot of the entity being acted upon.
type Resource interface {
	Kind() Kind
}

// Ambulance is a vehicle with its currently assigned crew.
type Ambulance struct {
	ID          string   `json:"id"`
	CrewUserIDs []string `json:"crew_user_ids"`
}

// Kind implements Resource.
func (Ambulance) Kind() Kind { return KindAmbulance }

// Patient is a patient record. Referrals carries the patient's referrals as
// hydrated by the caller and is only consulted for doctor involvement.
type Patient struct {
	ID        string     `json:"id"`
	Referrals []Referral `json:"referrals,omitempty"`
}

// Kind implements Resource.
func (Patient) Kind() Kind { return KindPatient }

// Referral moves a patient from a referring facility to a receiving one.
type Referral struct {
	ID                  string `json:"id"`
	PatientID           string `json:"patient_id"`
	ReferringFacilityID string `json:"referring_facility_id"`
	ReceivingFacilityID string `json:"receiving_facility_id"`
	ReferringDoctorID   string `json:"referring_doctor_id"`
	ReceivingDoctorID   string `json:"receiving_doctor_id"`
	Status              Status `json:"status"`
}

// Kind implements Resource.
func (Referral) Kind() Kind { return KindReferral }

// User is an account managed by administrators.
type User struct {
	ID         string `json:"id"`
	FacilityID string `json:"facility_id"`
	Role       string `json:"role"`
}

// Kind implements Resource.
func (User) Kind() Kind { return KindUser }

// Equipment is a facility asset.
type Equipment struct {
	ID           string `json:"id"`
	FacilityID   string `json:"facility_id"`
	DepartmentID string `json:"department_id"`
}

// Kind implements Resource.
func (Equipment) Kind() Kind { return KindEquipment }

// normalize dereferences pointer snapshots so rule predicates only deal with
// value types. A nil pointer yields nil.
func normalize(r Resource) Resource {
	switch v := r.(type) {
	case *Ambulance:
		if v == nil {
			return nil
		}
		return *v
	case *Patient:
		if v == nil {
			return nil
		}
		return *v
	case *Referral:
		if v == nil {
			return nil
		}
		return *v
	case *User:
		if v == nil {
			return nil
		}
		return *v
	case *Equipment:
		if v == nil {
			return nil
		}
		return *v
	}
	return r
}
