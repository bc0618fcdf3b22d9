// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// isoLayouts are the timestamp forms accepted in stored documents.
// Layouts without a zone are interpreted in local time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISOTime parses an ISO-8601 date or timestamp.
// A trailing "Z" is accepted as UTC.
func ParseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ValidateLocation validates a Location according to domain rules.
//
// Validation rules:
//   - Province must be one of Provinces
//   - Canton and District must not be blank
func ValidateLocation(loc *Location) error {
	if loc == nil {
		return fmt.Errorf("%w: location is nil", ErrValidation)
	}
	if !slices.Contains(Provinces, loc.Province) {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidProvince, loc.Province)
	}
	if strings.TrimSpace(loc.Canton) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCanton)
	}
	if strings.TrimSpace(loc.District) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyDistrict)
	}
	return nil
}

// ValidatePetProfile validates a PetProfile according to domain rules.
//
// Validation rules:
//   - Species, Size and ApproximateAge must belong to their closed sets
//   - Colors must be non-empty, each lowercase, trimmed and non-blank
//   - DistinctiveFeatures entries must be trimmed and non-blank
//   - LastSeenLocation must be valid
//   - LastSeenDate, when present, must be an ISO date
func ValidatePetProfile(p *PetProfile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", ErrValidation)
	}
	switch p.Species {
	case SpeciesDog, SpeciesCat, SpeciesOther:
	default:
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidSpecies, p.Species)
	}
	switch p.Size {
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidSize, p.Size)
	}
	switch p.ApproximateAge {
	case AgeUnknown, AgePuppy, AgeYoungAdult, AgeAdult, AgeSenior:
	default:
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidAge, p.ApproximateAge)
	}
	if len(p.Colors) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNoColors)
	}
	for _, c := range p.Colors {
		if c == "" || c != strings.ToLower(strings.TrimSpace(c)) {
			return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidColor, c)
		}
	}
	for _, f := range p.DistinctiveFeatures {
		if f == "" || f != strings.TrimSpace(f) {
			return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidFeature, f)
		}
	}
	if err := ValidateLocation(&p.LastSeenLocation); err != nil {
		return err
	}
	if p.LastSeenDate != "" {
		if _, err := ParseISOTime(p.LastSeenDate); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

// ValidateReport validates a stored Report, including its profile.
// ReportDate is free text here; readers treat an unparsable date as today.
func ValidateReport(r *Report) error {
	if r == nil {
		return fmt.Errorf("%w: report is nil", ErrValidation)
	}
	if strings.TrimSpace(r.ReportID) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyReportID)
	}
	switch r.ReportType {
	case ReportTypeLost, ReportTypeSighting:
	default:
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidReportType, r.ReportType)
	}
	switch r.Status {
	case StatusActive, StatusResolved, StatusExpired:
	default:
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidStatus, r.Status)
	}
	return ValidatePetProfile(&r.Profile)
}

// ValidateUserInput validates a raw submission.
func ValidateUserInput(in *UserInput) error {
	if in == nil {
		return fmt.Errorf("%w: input is nil", ErrValidation)
	}
	if len(strings.TrimSpace(in.Description)) < MinDescriptionLength {
		return fmt.Errorf("%w: %w: need at least %d characters", ErrValidation, ErrDescriptionTooShort, MinDescriptionLength)
	}
	if len(in.Images) > MaxImages {
		return fmt.Errorf("%w: %w: %d > %d", ErrValidation, ErrTooManyImages, len(in.Images), MaxImages)
	}
	switch in.ReportType {
	case ReportTypeLost, ReportTypeSighting:
	default:
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidReportType, in.ReportType)
	}
	return ValidateLocation(&in.Location)
}
