package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestPatientFieldsApplySparse(t *testing.T) {
	p := &Patient{
		FirstName:    "Juan",
		LastName:     "Cruz",
		Religion:     "Roman Catholic",
		MobileNumber: "+639171234567",
	}

	f := &PatientFields{
		Gender:    strp("male"),
		BirthDate: strp("1990-01-01"),
	}
	f.Apply(p)

	assert.Equal(t, "Juan", p.FirstName)
	assert.Equal(t, "Roman Catholic", p.Religion)
	assert.Equal(t, "male", p.Gender)
	assert.Equal(t, "1990-01-01", p.BirthDate)
}

func TestPatientFieldsApplyOverwrites(t *testing.T) {
	p := &Patient{FirstName: "Juan", Indigenous: false}

	yes := true
	f := &PatientFields{
		FirstName:  strp("Ana"),
		Indigenous: &yes,
	}
	f.Apply(p)

	assert.Equal(t, "Ana", p.FirstName)
	assert.True(t, p.Indigenous)
}

func TestPatientFieldsApplyEmptyStringIsSet(t *testing.T) {
	// A present-but-empty value on the wire clears the field; only nil
	// means absent.
	p := &Patient{MiddleName: "Santos"}
	f := &PatientFields{MiddleName: strp("")}
	f.Apply(p)

	assert.Equal(t, "", p.MiddleName)
}

func TestPaginationNormalize(t *testing.T) {
	cases := []struct {
		in, out Pagination
	}{
		{Pagination{Page: 0, PageSize: 0}, Pagination{Page: 1, PageSize: 20}},
		{Pagination{Page: -3, PageSize: -1}, Pagination{Page: 1, PageSize: 20}},
		{Pagination{Page: 2, PageSize: 50}, Pagination{Page: 2, PageSize: 50}},
		{Pagination{Page: 1, PageSize: 500}, Pagination{Page: 1, PageSize: 100}},
	}
	for _, tc := range cases {
		p := tc.in
		p.Normalize()
		assert.Equal(t, tc.out, p)
	}
}
