package fhirmap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/interop-api/internal/model"
)

func fullPatient() *model.Patient {
	return &model.Patient{
		FirstName:                    "Juan",
		MiddleName:                   "Santos",
		LastName:                     "Cruz",
		Suffix:                       "Jr",
		Gender:                       "male",
		BirthDate:                    "1990-01-01",
		CivilStatus:                  "Married",
		Nationality:                  "Filipino",
		Religion:                     "Roman Catholic",
		Occupation:                   "Fisherman",
		PhilHealthID:                 "12-345678901-2",
		MobileNumber:                 "+639171234567",
		AddressLine:                  "123 Mabini St",
		City:                         "Quezon City",
		Province:                     "Metro Manila",
		PostalCode:                   "1100",
		EmergencyContactName:         "Maria Cruz",
		EmergencyContactMobile:       "+639170000000",
		EmergencyContactRelationship: "Spouse",
		Indigenous:                   true,
		IndigenousGroup:              "Aeta",
	}
}

func TestToFHIRFull(t *testing.T) {
	r := ToFHIR(fullPatient())

	assert.Equal(t, "Patient", r.ResourceType)
	require.Len(t, r.Identifier, 1)
	assert.Equal(t, SystemPhilHealth, r.Identifier[0].System)
	assert.Equal(t, "12-345678901-2", r.Identifier[0].Value)

	require.Len(t, r.Name, 1)
	assert.Equal(t, "Cruz", r.Name[0].Family)
	assert.Equal(t, []string{"Juan", "Santos"}, r.Name[0].Given)
	assert.Equal(t, []string{"Jr"}, r.Name[0].Suffix)

	assert.Equal(t, "male", r.Gender)
	assert.Equal(t, "1990-01-01", r.BirthDate)

	require.Len(t, r.Address, 1)
	assert.Equal(t, []string{"123 Mabini St"}, r.Address[0].Line)
	assert.Equal(t, "Quezon City", r.Address[0].City)
	assert.Equal(t, "Metro Manila", r.Address[0].State)
	assert.Equal(t, "1100", r.Address[0].PostalCode)

	require.Len(t, r.Telecom, 1)
	assert.Equal(t, "phone", r.Telecom[0].System)
	assert.Equal(t, "+639171234567", r.Telecom[0].Value)

	require.NotNil(t, r.MaritalStatus)
	require.Len(t, r.MaritalStatus.Coding, 1)
	assert.Equal(t, "M", r.MaritalStatus.Coding[0].Code)

	require.Len(t, r.Contact, 1)
	require.NotNil(t, r.Contact[0].Name)
	assert.Equal(t, "Maria Cruz", r.Contact[0].Name.Text)
	require.Len(t, r.Contact[0].Telecom, 1)
	assert.Equal(t, "+639170000000", r.Contact[0].Telecom[0].Value)
	require.Len(t, r.Contact[0].Relationship, 1)
	assert.Equal(t, "Spouse", r.Contact[0].Relationship[0].Text)
}

func TestRoundTrip(t *testing.T) {
	p := fullPatient()
	f := FromFHIR(ToFHIR(p))

	require.NotNil(t, f.FirstName)
	assert.Equal(t, p.FirstName, *f.FirstName)
	require.NotNil(t, f.MiddleName)
	assert.Equal(t, p.MiddleName, *f.MiddleName)
	require.NotNil(t, f.LastName)
	assert.Equal(t, p.LastName, *f.LastName)
	require.NotNil(t, f.Suffix)
	assert.Equal(t, p.Suffix, *f.Suffix)
	require.NotNil(t, f.Gender)
	assert.Equal(t, p.Gender, *f.Gender)
	require.NotNil(t, f.BirthDate)
	assert.Equal(t, p.BirthDate, *f.BirthDate)
	require.NotNil(t, f.CivilStatus)
	assert.Equal(t, p.CivilStatus, *f.CivilStatus)
	require.NotNil(t, f.Nationality)
	assert.Equal(t, p.Nationality, *f.Nationality)
	require.NotNil(t, f.Religion)
	assert.Equal(t, p.Religion, *f.Religion)
	require.NotNil(t, f.Occupation)
	assert.Equal(t, p.Occupation, *f.Occupation)
	require.NotNil(t, f.PhilHealthID)
	assert.Equal(t, p.PhilHealthID, *f.PhilHealthID)
	require.NotNil(t, f.MobileNumber)
	assert.Equal(t, p.MobileNumber, *f.MobileNumber)
	require.NotNil(t, f.AddressLine)
	assert.Equal(t, p.AddressLine, *f.AddressLine)
	require.NotNil(t, f.City)
	assert.Equal(t, p.City, *f.City)
	require.NotNil(t, f.Province)
	assert.Equal(t, p.Province, *f.Province)
	require.NotNil(t, f.PostalCode)
	assert.Equal(t, p.PostalCode, *f.PostalCode)
	require.NotNil(t, f.EmergencyContactName)
	assert.Equal(t, p.EmergencyContactName, *f.EmergencyContactName)
	require.NotNil(t, f.EmergencyContactMobile)
	assert.Equal(t, p.EmergencyContactMobile, *f.EmergencyContactMobile)
	require.NotNil(t, f.EmergencyContactRelationship)
	assert.Equal(t, p.EmergencyContactRelationship, *f.EmergencyContactRelationship)
	require.NotNil(t, f.Indigenous)
	assert.True(t, *f.Indigenous)
	require.NotNil(t, f.IndigenousGroup)
	assert.Equal(t, p.IndigenousGroup, *f.IndigenousGroup)
}

func TestToFHIRSparseOmission(t *testing.T) {
	r := ToFHIR(&model.Patient{FirstName: "Ana", LastName: "Reyes"})

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "null")
	assert.NotContains(t, body, "identifier")
	assert.NotContains(t, body, "telecom")
	assert.NotContains(t, body, "address")
	assert.NotContains(t, body, "maritalStatus")
	assert.NotContains(t, body, "extension")
	assert.NotContains(t, body, "contact")
	assert.NotContains(t, body, "[]")
}

func TestToFHIREmptyPatient(t *testing.T) {
	r := ToFHIR(&model.Patient{})

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"resourceType":"Patient"}`, string(raw))
}

func TestFromFHIRSparse(t *testing.T) {
	f := FromFHIR(&model.FHIRPatient{
		ResourceType: "Patient",
		Gender:       "female",
	})

	assert.NotNil(t, f.Gender)
	assert.Nil(t, f.FirstName)
	assert.Nil(t, f.LastName)
	assert.Nil(t, f.PhilHealthID)
	assert.Nil(t, f.BirthDate)
	assert.Nil(t, f.MobileNumber)
	assert.Nil(t, f.CivilStatus)
	assert.Nil(t, f.Indigenous)
}

func TestFromFHIRUnknownMaritalCode(t *testing.T) {
	f := FromFHIR(&model.FHIRPatient{
		MaritalStatus: &model.CodeableConcept{
			Coding: []model.Coding{{Code: "X"}},
		},
	})

	assert.Nil(t, f.CivilStatus)
}

func TestFromFHIRMalformedInput(t *testing.T) {
	// Total over malformed input: nothing here may panic.
	assert.NotNil(t, FromFHIR(nil))
	assert.NotNil(t, FromFHIR(&model.FHIRPatient{}))
	assert.NotNil(t, FromFHIR(&model.FHIRPatient{
		Name:    []model.HumanName{{}},
		Address: []model.FHIRAddress{{}},
		Contact: []model.FHIRContact{{}},
	}))
}

func TestFromFHIRExtensionSuffixMatch(t *testing.T) {
	// A hub with a different base URL still decodes by suffix.
	f := FromFHIR(&model.FHIRPatient{
		Extension: []model.Extension{
			{URL: "http://other-hub.example/fhir/religion", ValueString: "Iglesia ni Cristo"},
		},
	})

	require.NotNil(t, f.Religion)
	assert.Equal(t, "Iglesia ni Cristo", *f.Religion)
}

func TestFromFHIRPhilHealthIdentifierOnly(t *testing.T) {
	f := FromFHIR(&model.FHIRPatient{
		Identifier: []model.Identifier{
			{System: "http://example.com/mrn", Value: "MRN-1"},
			{System: SystemPhilHealth, Value: "PH-9"},
		},
	})

	require.NotNil(t, f.PhilHealthID)
	assert.Equal(t, "PH-9", *f.PhilHealthID)
}

func TestMaritalCodeTable(t *testing.T) {
	cases := map[string]string{
		"Single":            "S",
		"Married":           "M",
		"Widowed":           "W",
		"Divorced":          "D",
		"Legally Separated": "L",
		"Annulled":          "A",
	}
	for status, code := range cases {
		r := ToFHIR(&model.Patient{CivilStatus: status})
		require.NotNil(t, r.MaritalStatus, status)
		assert.Equal(t, code, r.MaritalStatus.Coding[0].Code)

		f := FromFHIR(r)
		require.NotNil(t, f.CivilStatus, code)
		assert.Equal(t, status, *f.CivilStatus)
	}

	// Unknown civil statuses are not emitted at all.
	r := ToFHIR(&model.Patient{CivilStatus: "Complicated"})
	assert.Nil(t, r.MaritalStatus)
}

func TestExtensionURLs(t *testing.T) {
	r := ToFHIR(fullPatient())

	var urls []string
	for _, e := range r.Extension {
		urls = append(urls, e.URL)
	}
	assert.Len(t, urls, 5)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "https://wah4pc.health.gov.ph/"), u)
	}
}
