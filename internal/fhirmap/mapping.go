// Package fhirmap converts between the local patient record and the
// FHIR Patient resource exchanged with the WAH4PC hub. Both directions
// are pure and total: malformed or partial input degrades to omitted
// fields, never an error, so a bad payload can't abort a webhook or
// request path.
package fhirmap

import (
	"strings"

	"github.com/jwalitptl/interop-api/internal/model"
)

// ToFHIR builds the wire resource for a local patient. Empty fields
// are stripped entirely: no empty arrays, no null-valued keys.
func ToFHIR(p *model.Patient) *model.FHIRPatient {
	r := &model.FHIRPatient{ResourceType: "Patient"}
	if p == nil {
		return r
	}

	if p.PhilHealthID != "" {
		r.Identifier = append(r.Identifier, model.Identifier{
			System: SystemPhilHealth,
			Value:  p.PhilHealthID,
		})
	}

	if name := buildName(p); name != nil {
		r.Name = []model.HumanName{*name}
	}

	r.Gender = p.Gender
	r.BirthDate = p.BirthDate

	if addr := buildAddress(p); addr != nil {
		r.Address = []model.FHIRAddress{*addr}
	}

	if p.MobileNumber != "" {
		r.Telecom = []model.ContactPoint{{
			System: "phone",
			Value:  p.MobileNumber,
			Use:    "mobile",
		}}
	}

	if code, ok := maritalCodes[p.CivilStatus]; ok {
		r.MaritalStatus = &model.CodeableConcept{
			Coding: []model.Coding{{
				System:  SystemMaritalStatus,
				Code:    code,
				Display: p.CivilStatus,
			}},
		}
	}

	r.Extension = buildExtensions(p)

	if contact := buildContact(p); contact != nil {
		r.Contact = []model.FHIRContact{*contact}
	}

	return r
}

func buildName(p *model.Patient) *model.HumanName {
	if p.FirstName == "" && p.MiddleName == "" && p.LastName == "" && p.Suffix == "" {
		return nil
	}
	name := &model.HumanName{Family: p.LastName}
	if p.FirstName != "" {
		name.Given = append(name.Given, p.FirstName)
	}
	if p.MiddleName != "" {
		name.Given = append(name.Given, p.MiddleName)
	}
	if p.Suffix != "" {
		name.Suffix = []string{p.Suffix}
	}
	return name
}

func buildAddress(p *model.Patient) *model.FHIRAddress {
	if p.AddressLine == "" && p.City == "" && p.Province == "" && p.PostalCode == "" {
		return nil
	}
	addr := &model.FHIRAddress{
		City:       p.City,
		State:      p.Province,
		PostalCode: p.PostalCode,
	}
	if p.AddressLine != "" {
		addr.Line = []string{p.AddressLine}
	}
	return addr
}

func buildExtensions(p *model.Patient) []model.Extension {
	var exts []model.Extension
	if p.Nationality != "" {
		exts = append(exts, model.Extension{URL: ExtensionNationality, ValueString: p.Nationality})
	}
	if p.Indigenous {
		v := true
		exts = append(exts, model.Extension{URL: ExtensionIndigenous, ValueBoolean: &v})
		if p.IndigenousGroup != "" {
			exts = append(exts, model.Extension{URL: ExtensionIndigenousGroup, ValueString: p.IndigenousGroup})
		}
	}
	if p.Occupation != "" {
		exts = append(exts, model.Extension{URL: ExtensionOccupation, ValueString: p.Occupation})
	}
	if p.Religion != "" {
		exts = append(exts, model.Extension{URL: ExtensionReligion, ValueString: p.Religion})
	}
	return exts
}

func buildContact(p *model.Patient) *model.FHIRContact {
	if p.EmergencyContactName == "" && p.EmergencyContactMobile == "" && p.EmergencyContactRelationship == "" {
		return nil
	}
	contact := &model.FHIRContact{}
	if p.EmergencyContactName != "" {
		contact.Name = &model.HumanName{Text: p.EmergencyContactName}
	}
	if p.EmergencyContactMobile != "" {
		contact.Telecom = []model.ContactPoint{{System: "phone", Value: p.EmergencyContactMobile}}
	}
	if p.EmergencyContactRelationship != "" {
		contact.Relationship = []model.CodeableConcept{{Text: p.EmergencyContactRelationship}}
	}
	return contact
}

// FromFHIR extracts local patient fields from a wire resource. The
// result is sparse: anything absent from the payload stays nil so the
// caller can apply it as a merge rather than an overwrite.
func FromFHIR(r *model.FHIRPatient) *model.PatientFields {
	f := &model.PatientFields{}
	if r == nil {
		return f
	}

	for _, id := range r.Identifier {
		if id.System == SystemPhilHealth && id.Value != "" {
			f.PhilHealthID = strptr(id.Value)
			break
		}
	}

	if len(r.Name) > 0 {
		name := r.Name[0]
		if name.Family != "" {
			f.LastName = strptr(name.Family)
		}
		if len(name.Given) > 0 && name.Given[0] != "" {
			f.FirstName = strptr(name.Given[0])
		}
		if len(name.Given) > 1 && name.Given[1] != "" {
			f.MiddleName = strptr(name.Given[1])
		}
		if len(name.Suffix) > 0 && name.Suffix[0] != "" {
			f.Suffix = strptr(name.Suffix[0])
		}
	}

	if r.Gender != "" {
		f.Gender = strptr(r.Gender)
	}
	if r.BirthDate != "" {
		f.BirthDate = strptr(r.BirthDate)
	}

	if len(r.Address) > 0 {
		addr := r.Address[0]
		if len(addr.Line) > 0 && addr.Line[0] != "" {
			f.AddressLine = strptr(addr.Line[0])
		}
		if addr.City != "" {
			f.City = strptr(addr.City)
		}
		if addr.State != "" {
			f.Province = strptr(addr.State)
		}
		if addr.PostalCode != "" {
			f.PostalCode = strptr(addr.PostalCode)
		}
	}

	for _, t := range r.Telecom {
		if t.System == "phone" && t.Value != "" {
			f.MobileNumber = strptr(t.Value)
			break
		}
	}

	if r.MaritalStatus != nil && len(r.MaritalStatus.Coding) > 0 {
		if status, ok := maritalStatuses[r.MaritalStatus.Coding[0].Code]; ok {
			f.CivilStatus = strptr(status)
		}
	}

	applyExtensions(f, r.Extension)

	if len(r.Contact) > 0 {
		contact := r.Contact[0]
		if contact.Name != nil && contact.Name.Text != "" {
			f.EmergencyContactName = strptr(contact.Name.Text)
		}
		for _, t := range contact.Telecom {
			if t.System == "phone" && t.Value != "" {
				f.EmergencyContactMobile = strptr(t.Value)
				break
			}
		}
		if len(contact.Relationship) > 0 && contact.Relationship[0].Text != "" {
			f.EmergencyContactRelationship = strptr(contact.Relationship[0].Text)
		}
	}

	return f
}

// extensionSetters is the typed lookup table for extension URLs,
// matched on URL suffix so payloads from hubs with a different base
// still decode.
var extensionSetters = map[string]func(*model.PatientFields, model.Extension){
	"nationality": func(f *model.PatientFields, e model.Extension) {
		if e.ValueString != "" {
			f.Nationality = strptr(e.ValueString)
		}
	},
	"indigenous-people": func(f *model.PatientFields, e model.Extension) {
		if e.ValueBoolean != nil {
			f.Indigenous = e.ValueBoolean
		}
	},
	"indigenous-group": func(f *model.PatientFields, e model.Extension) {
		if e.ValueString != "" {
			f.IndigenousGroup = strptr(e.ValueString)
		}
	},
	"occupation": func(f *model.PatientFields, e model.Extension) {
		if e.ValueString != "" {
			f.Occupation = strptr(e.ValueString)
		}
	},
	"religion": func(f *model.PatientFields, e model.Extension) {
		if e.ValueString != "" {
			f.Religion = strptr(e.ValueString)
		}
	},
}

func applyExtensions(f *model.PatientFields, exts []model.Extension) {
	for _, ext := range exts {
		for suffix, set := range extensionSetters {
			if strings.HasSuffix(ext.URL, "/"+suffix) || ext.URL == suffix {
				set(f, ext)
				break
			}
		}
	}
}

func strptr(s string) *string {
	return &s
}
