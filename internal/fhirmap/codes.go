package fhirmap

// Identifier and code systems used on the WAH4PC wire.
const (
	SystemPhilHealth    = "http://philhealth.gov.ph"
	SystemMaritalStatus = "http://terminology.hl7.org/CodeSystem/v3-MaritalStatus"

	extensionBase = "https://wah4pc.health.gov.ph/fhir/StructureDefinition/"

	ExtensionNationality     = extensionBase + "nationality"
	ExtensionIndigenous      = extensionBase + "indigenous-people"
	ExtensionIndigenousGroup = extensionBase + "indigenous-group"
	ExtensionOccupation      = extensionBase + "occupation"
	ExtensionReligion        = extensionBase + "religion"
)

// Civil status to FHIR marital code. Fixed table; unknown values are
// simply not emitted.
var maritalCodes = map[string]string{
	"Single":            "S",
	"Married":           "M",
	"Widowed":           "W",
	"Divorced":          "D",
	"Legally Separated": "L",
	"Annulled":          "A",
}

// Inverse of maritalCodes. Unknown codes decode to "", never an error.
var maritalStatuses = func() map[string]string {
	m := make(map[string]string, len(maritalCodes))
	for status, code := range maritalCodes {
		m[code] = status
	}
	return m
}()
