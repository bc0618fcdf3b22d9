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
	"strings"
)

// Species identifies the kind of animal.
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// ParseSpecies converts a string to a Species. Matching is case-insensitive.
func ParseSpecies(s string) (Species, error) {
	switch v := Species(strings.ToLower(strings.TrimSpace(s))); v {
	case SpeciesDog, SpeciesCat, SpeciesOther:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSpecies, s)
	}
}

// UnmarshalText rejects values outside the closed set.
func (s *Species) UnmarshalText(b []byte) error {
	v, err := ParseSpecies(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Size is the coarse body size of an animal.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ParseSize converts a string to a Size. Matching is case-insensitive.
func ParseSize(s string) (Size, error) {
	switch v := Size(strings.ToLower(strings.TrimSpace(s))); v {
	case SizeSmall, SizeMedium, SizeLarge:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
}

func (s *Size) UnmarshalText(b []byte) error {
	v, err := ParseSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Age is an approximate life stage. The zero value means unknown.
type Age string

const (
	AgeUnknown    Age = ""
	AgePuppy      Age = "puppy"
	AgeYoungAdult Age = "young adult"
	AgeAdult      Age = "adult"
	AgeSenior     Age = "senior"
)

// ParseAge converts a string to an Age. Empty input yields AgeUnknown.
func ParseAge(s string) (Age, error) {
	switch v := Age(strings.ToLower(strings.TrimSpace(s))); v {
	case AgeUnknown, AgePuppy, AgeYoungAdult, AgeAdult, AgeSenior:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAge, s)
	}
}

func (a *Age) UnmarshalText(b []byte) error {
	v, err := ParseAge(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ReportType distinguishes lost-pet reports from sightings.
type ReportType string

const (
	ReportTypeLost     ReportType = "lost"
	ReportTypeSighting ReportType = "sighting"
)

// ReportTypes lists every report type in pool order.
var ReportTypes = []ReportType{ReportTypeLost, ReportTypeSighting}

// ParseReportType converts a string to a ReportType.
func ParseReportType(s string) (ReportType, error) {
	switch v := ReportType(strings.ToLower(strings.TrimSpace(s))); v {
	case ReportTypeLost, ReportTypeSighting:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReportType, s)
	}
}

func (t *ReportType) UnmarshalText(b []byte) error {
	v, err := ParseReportType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ReportStatus is the lifecycle state of a stored report.
type ReportStatus string

const (
	StatusActive   ReportStatus = "active"
	StatusResolved ReportStatus = "resolved"
	StatusExpired  ReportStatus = "expired"
)

// ParseReportStatus converts a string to a ReportStatus.
func ParseReportStatus(s string) (ReportStatus, error) {
	switch v := ReportStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusActive, StatusResolved, StatusExpired:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s *ReportStatus) UnmarshalText(b []byte) error {
	v, err := ParseReportStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Confidence is the coarse trust tier assigned to a match result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// ParseConfidence converts a string to a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	switch v := Confidence(strings.ToLower(strings.TrimSpace(s))); v {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceNone:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConfidence, s)
	}
}

func (c *Confidence) UnmarshalText(b []byte) error {
	v, err := ParseConfidence(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
