package model

// FHIR Patient wire types. These are transient: every payload is
// converted to or from the local Patient before use, and absent data
// is omitted from the wire entirely (no nulls, no empty arrays).

type FHIRPatient struct {
	ResourceType  string           `json:"resourceType"`
	Identifier    []Identifier     `json:"identifier,omitempty"`
	Name          []HumanName      `json:"name,omitempty"`
	Gender        string           `json:"gender,omitempty"`
	BirthDate     string           `json:"birthDate,omitempty"`
	Address       []FHIRAddress    `json:"address,omitempty"`
	Telecom       []ContactPoint   `json:"telecom,omitempty"`
	MaritalStatus *CodeableConcept `json:"maritalStatus,omitempty"`
	Contact       []FHIRContact    `json:"contact,omitempty"`
	Extension     []Extension      `json:"extension,omitempty"`
}

type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

type HumanName struct {
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
	Suffix []string `json:"suffix,omitempty"`
}

type FHIRAddress struct {
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

type ContactPoint struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
	Use    string `json:"use,omitempty"`
}

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Extension struct {
	URL          string `json:"url"`
	ValueString  string `json:"valueString,omitempty"`
	ValueBoolean *bool  `json:"valueBoolean,omitempty"`
}

type FHIRContact struct {
	Name         *HumanName       `json:"name,omitempty"`
	Telecom      []ContactPoint   `json:"telecom,omitempty"`
	Relationship []CodeableConcept `json:"relationship,omitempty"`
}
