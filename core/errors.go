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

import "errors"

// ErrValidation wraps every domain validation failure.
var ErrValidation = errors.New("validation error")

// Domain validation errors
var (
	// ErrInvalidProvince indicates a province outside the fixed set.
	ErrInvalidProvince = errors.New("invalid province")

	// ErrEmptyCanton indicates the canton is blank after trimming.
	ErrEmptyCanton = errors.New("canton cannot be empty")

	// ErrEmptyDistrict indicates the district is blank after trimming.
	ErrEmptyDistrict = errors.New("district cannot be empty")

	// ErrNoColors indicates a profile without any color.
	ErrNoColors = errors.New("at least one color must be provided")

	// ErrInvalidColor indicates a color that is blank or not normalized.
	ErrInvalidColor = errors.New("colors must be lowercase, trimmed and non-empty")

	// ErrInvalidFeature indicates a blank or untrimmed distinctive feature.
	ErrInvalidFeature = errors.New("distinctive features must be trimmed and non-empty")

	ErrInvalidSpecies    = errors.New("invalid species")
	ErrInvalidSize       = errors.New("invalid size")
	ErrInvalidAge        = errors.New("invalid approximate age")
	ErrInvalidReportType = errors.New("invalid report type")
	ErrInvalidStatus     = errors.New("invalid report status")
	ErrInvalidConfidence = errors.New("invalid confidence level")

	// ErrInvalidDate indicates a date or timestamp that cannot be parsed.
	ErrInvalidDate = errors.New("invalid ISO date")

	// ErrEmptyReportID indicates a report without an identifier.
	ErrEmptyReportID = errors.New("report id cannot be empty")

	// ErrDescriptionTooShort indicates a submission description below the minimum length.
	ErrDescriptionTooShort = errors.New("description is too short")

	// ErrTooManyImages indicates a submission carrying more than MaxImages images.
	ErrTooManyImages = errors.New("too many images")
)
