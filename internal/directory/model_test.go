package directory

import (
	"testing"

	"github.com/google/uuid"
)

func TestPrimarySpecialtyID(t *testing.T) {
	d := Doctor{SpecialtyIDs: []int32{7, 12}}
	got, ok := d.PrimarySpecialtyID()
	if !ok {
		t.Fatal("expected a primary specialty")
	}
	if got != 7 {
		t.Errorf("PrimarySpecialtyID = %d, want 7", got)
	}

	empty := Doctor{}
	if _, ok := empty.PrimarySpecialtyID(); ok {
		t.Error("doctor without specialties should have no primary")
	}
}

func TestFacilityValidate(t *testing.T) {
	valid := Facility{
		Type:    TypeClinic,
		OwnerID: uuid.New(),
		NameEN:  "Nile Clinic",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid facility rejected: %v", err)
	}

	arOnly := valid
	arOnly.NameEN = ""
	arOnly.NameAR = "عيادة النيل"
	if err := arOnly.Validate(); err != nil {
		t.Errorf("arabic-only name should be enough: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Facility)
	}{
		{"unknown type", func(f *Facility) { f.Type = "HOSPITAL" }},
		{"missing owner", func(f *Facility) { f.OwnerID = uuid.Nil }},
		{"no names", func(f *Facility) { f.NameEN = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			if err := f.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
