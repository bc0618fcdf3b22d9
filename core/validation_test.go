package core

import (
	"errors"
	"testing"
)

func validLocation() Location {
	return Location{Province: "San José", Canton: "Escazú", District: "San Antonio"}
}

func validProfile() PetProfile {
	return PetProfile{
		Species:             SpeciesDog,
		Size:                SizeMedium,
		Colors:              []string{"white", "brown"},
		DistinctiveFeatures: []string{"black spot on ear"},
		LastSeenLocation:    validLocation(),
	}
}

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name    string
		loc     *Location
		wantErr error
	}{
		{name: "valid", loc: &Location{Province: "Limón", Canton: "Talamanca", District: "Cahuita"}},
		{name: "nil", loc: nil, wantErr: ErrValidation},
		{name: "unknown province", loc: &Location{Province: "Panamá", Canton: "x", District: "y"}, wantErr: ErrInvalidProvince},
		{name: "lowercase province", loc: &Location{Province: "san josé", Canton: "x", District: "y"}, wantErr: ErrInvalidProvince},
		{name: "blank canton", loc: &Location{Province: "Heredia", Canton: "  ", District: "y"}, wantErr: ErrEmptyCanton},
		{name: "blank district", loc: &Location{Province: "Heredia", Canton: "Belén", District: ""}, wantErr: ErrEmptyDistrict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocation(tt.loc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateLocation() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLocation() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ValidateLocation() error = %v, want wrapped ErrValidation", err)
			}
		})
	}
}

func TestNewLocation_TrimsFields(t *testing.T) {
	loc, err := NewLocation("Cartago", "  Paraíso ", " Orosi  ", " near the church ")
	if err != nil {
		t.Fatalf("NewLocation() error = %v", err)
	}
	if loc.Canton != "Paraíso" || loc.District != "Orosi" || loc.AdditionalDetails != "near the church" {
		t.Errorf("NewLocation() = %+v, want trimmed fields", loc)
	}
}

func TestNewLocation_AllProvinces(t *testing.T) {
	for _, p := range Provinces {
		if _, err := NewLocation(p, "c", "d", ""); err != nil {
			t.Errorf("NewLocation(%q) error = %v", p, err)
		}
	}
}

func TestValidatePetProfile(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(p *PetProfile)
		wantErr error
	}{
		{name: "valid", modify: func(p *PetProfile) {}},
		{name: "valid with age and date", modify: func(p *PetProfile) {
			p.ApproximateAge = AgeSenior
			p.LastSeenDate = "2024-03-01"
		}},
		{name: "unknown species", modify: func(p *PetProfile) { p.Species = "bird" }, wantErr: ErrInvalidSpecies},
		{name: "unknown size", modify: func(p *PetProfile) { p.Size = "huge" }, wantErr: ErrInvalidSize},
		{name: "unknown age", modify: func(p *PetProfile) { p.ApproximateAge = "ancient" }, wantErr: ErrInvalidAge},
		{name: "no colors", modify: func(p *PetProfile) { p.Colors = nil }, wantErr: ErrNoColors},
		{name: "uppercase color", modify: func(p *PetProfile) { p.Colors = []string{"White"} }, wantErr: ErrInvalidColor},
		{name: "padded color", modify: func(p *PetProfile) { p.Colors = []string{" white"} }, wantErr: ErrInvalidColor},
		{name: "blank feature", modify: func(p *PetProfile) { p.DistinctiveFeatures = []string{""} }, wantErr: ErrInvalidFeature},
		{name: "bad location", modify: func(p *PetProfile) { p.LastSeenLocation.District = "" }, wantErr: ErrEmptyDistrict},
		{name: "bad date", modify: func(p *PetProfile) { p.LastSeenDate = "yesterday" }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.modify(&p)
			err := ValidatePetProfile(&p)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePetProfile() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePetProfile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPetProfile_NormalizesColors(t *testing.T) {
	in := validProfile()
	in.Colors = []string{" White ", "", "BROWN"}
	in.DistinctiveFeatures = []string{"  collar ", " "}

	p, err := NewPetProfile(in)
	if err != nil {
		t.Fatalf("NewPetProfile() error = %v", err)
	}
	if len(p.Colors) != 2 || p.Colors[0] != "white" || p.Colors[1] != "brown" {
		t.Errorf("Colors = %v, want [white brown]", p.Colors)
	}
	if len(p.DistinctiveFeatures) != 1 || p.DistinctiveFeatures[0] != "collar" {
		t.Errorf("DistinctiveFeatures = %v, want [collar]", p.DistinctiveFeatures)
	}
}

func TestValidateReport(t *testing.T) {
	base := func() Report {
		return Report{
			ReportID:   "lost-1",
			ReportType: ReportTypeLost,
			Profile:    validProfile(),
			ReportDate: "2024-05-01T10:00:00",
			Status:     StatusActive,
		}
	}
	tests := []struct {
		name    string
		modify  func(r *Report)
		wantErr error
	}{
		{name: "valid", modify: func(r *Report) {}},
		{name: "zulu timestamp", modify: func(r *Report) { r.ReportDate = "2024-05-01T10:00:00Z" }},
		{name: "empty id", modify: func(r *Report) { r.ReportID = " " }, wantErr: ErrEmptyReportID},
		{name: "bad type", modify: func(r *Report) { r.ReportType = "found" }, wantErr: ErrInvalidReportType},
		{name: "bad status", modify: func(r *Report) { r.Status = "closed" }, wantErr: ErrInvalidStatus},
		{name: "free text date", modify: func(r *Report) { r.ReportDate = "last tuesday" }},
		{name: "empty date", modify: func(r *Report) { r.ReportDate = "" }},
		{name: "bad profile", modify: func(r *Report) { r.Profile.Colors = nil }, wantErr: ErrNoColors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.modify(&r)
			err := ValidateReport(&r)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateReport() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateReport() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUserInput(t *testing.T) {
	tests := []struct {
		name    string
		in      UserInput
		wantErr error
	}{
		{
			name: "valid",
			in:   UserInput{Description: "brown dog with a collar", Location: validLocation(), ReportType: ReportTypeLost},
		},
		{
			name:    "short description",
			in:      UserInput{Description: "  dog  ", Location: validLocation(), ReportType: ReportTypeLost},
			wantErr: ErrDescriptionTooShort,
		},
		{
			name: "too many images",
			in: UserInput{
				Images:      []string{"a", "b", "c", "d", "e", "f"},
				Description: "brown dog with a collar",
				Location:    validLocation(),
				ReportType:  ReportTypeSighting,
			},
			wantErr: ErrTooManyImages,
		},
		{
			name:    "missing report type",
			in:      UserInput{Description: "brown dog with a collar", Location: validLocation()},
			wantErr: ErrInvalidReportType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserInput(&tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateUserInput() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUserInput() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseISOTime(t *testing.T) {
	valid := []string{
		"2024-01-15",
		"2024-01-15T08:30:00",
		"2024-01-15T08:30:00.123456",
		"2024-01-15T08:30:00Z",
		"2024-01-15T08:30:00-06:00",
	}
	for _, s := range valid {
		if _, err := ParseISOTime(s); err != nil {
			t.Errorf("ParseISOTime(%q) error = %v", s, err)
		}
	}
	if _, err := ParseISOTime("15/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseISOTime() error = %v, want ErrInvalidDate", err)
	}
}
