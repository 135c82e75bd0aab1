package model

// Patient is the canonical local demographic record. The interop layer
// never deletes patients; rows are created by registration or by an
// inbound webhook merge.
type Patient struct {
	Base
	FirstName  string `db:"first_name" json:"first_name"`
	MiddleName string `db:"middle_name" json:"middle_name,omitempty"`
	LastName   string `db:"last_name" json:"last_name"`
	Suffix     string `db:"suffix" json:"suffix,omitempty"`

	Gender      string `db:"gender" json:"gender,omitempty"`
	BirthDate   string `db:"birth_date" json:"birth_date,omitempty"`
	CivilStatus string `db:"civil_status" json:"civil_status,omitempty"`
	Nationality string `db:"nationality" json:"nationality,omitempty"`
	Religion    string `db:"religion" json:"religion,omitempty"`
	Occupation  string `db:"occupation" json:"occupation,omitempty"`

	// PhilHealth ID is the primary external matching key: at most one
	// local patient maps to a given id after a successful merge.
	PhilHealthID string `db:"philhealth_id" json:"philhealth_id,omitempty"`
	BloodType    string `db:"blood_type" json:"blood_type,omitempty"`
	PWDType      string `db:"pwd_type" json:"pwd_type,omitempty"`

	MobileNumber string `db:"mobile_number" json:"mobile_number,omitempty"`
	AddressLine  string `db:"address_line" json:"address_line,omitempty"`
	City         string `db:"city" json:"city,omitempty"`
	Province     string `db:"province" json:"province,omitempty"`
	PostalCode   string `db:"postal_code" json:"postal_code,omitempty"`

	EmergencyContactName         string `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactMobile       string `db:"emergency_contact_mobile" json:"emergency_contact_mobile,omitempty"`
	EmergencyContactRelationship string `db:"emergency_contact_relationship" json:"emergency_contact_relationship,omitempty"`

	Indigenous      bool   `db:"indigenous" json:"indigenous"`
	IndigenousGroup string `db:"indigenous_group" json:"indigenous_group,omitempty"`
	Consent         bool   `db:"consent" json:"consent"`
}

// PatientFields is a sparse partial of Patient produced by the FHIR
// mapping layer. Nil means the field was absent from the wire payload
// and must not be touched on merge.
type PatientFields struct {
	FirstName  *string `json:"first_name,omitempty"`
	MiddleName *string `json:"middle_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Suffix     *string `json:"suffix,omitempty"`

	Gender      *string `json:"gender,omitempty"`
	BirthDate   *string `json:"birth_date,omitempty"`
	CivilStatus *string `json:"civil_status,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Religion    *string `json:"religion,omitempty"`
	Occupation  *string `json:"occupation,omitempty"`

	PhilHealthID *string `json:"philhealth_id,omitempty"`

	MobileNumber *string `json:"mobile_number,omitempty"`
	AddressLine  *string `json:"address_line,omitempty"`
	City         *string `json:"city,omitempty"`
	Province     *string `json:"province,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`

	EmergencyContactName         *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactMobile       *string `json:"emergency_contact_mobile,omitempty"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship,omitempty"`

	Indigenous      *bool   `json:"indigenous,omitempty"`
	IndigenousGroup *string `json:"indigenous_group,omitempty"`
}

// Apply copies every set field onto p. Absent fields leave the
// existing value untouched.
func (f *PatientFields) Apply(p *Patient) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&p.FirstName, f.FirstName)
	setStr(&p.MiddleName, f.MiddleName)
	setStr(&p.LastName, f.LastName)
	setStr(&p.Suffix, f.Suffix)
	setStr(&p.Gender, f.Gender)
	setStr(&p.BirthDate, f.BirthDate)
	setStr(&p.CivilStatus, f.CivilStatus)
	setStr(&p.Nationality, f.Nationality)
	setStr(&p.Religion, f.Religion)
	setStr(&p.Occupation, f.Occupation)
	setStr(&p.PhilHealthID, f.PhilHealthID)
	setStr(&p.MobileNumber, f.MobileNumber)
	setStr(&p.AddressLine, f.AddressLine)
	setStr(&p.City, f.City)
	setStr(&p.Province, f.Province)
	setStr(&p.PostalCode, f.PostalCode)
	setStr(&p.EmergencyContactName, f.EmergencyContactName)
	setStr(&p.EmergencyContactMobile, f.EmergencyContactMobile)
	setStr(&p.EmergencyContactRelationship, f.EmergencyContactRelationship)
	setStr(&p.IndigenousGroup, f.IndigenousGroup)
	if f.Indigenous != nil {
		p.Indigenous = *f.Indigenous
	}
}
