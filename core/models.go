package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a content-derived identifier used to key cached artifacts such as
// embeddings of a profile's canonical text.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NewReportID returns a fresh identifier for a newly filed report.
func NewReportID(reportType ReportType) string {
	return string(reportType) + "-" + uuid.NewString()
}

// Provinces is the fixed set of provinces a Location may reference.
var Provinces = []string{
	"San José",
	"Alajuela",
	"Cartago",
	"Heredia",
	"Guanacaste",
	"Puntarenas",
	"Limón",
}

// Location identifies where a pet was lost or sighted.
// Construct with NewLocation; the value is not modified afterwards.
type Location struct {
	Province          string `json:"province"`
	Canton            string `json:"canton"`
	District          string `json:"district"`
	AdditionalDetails string `json:"additional_details,omitempty"`
}

// NewLocation validates and normalizes a Location.
// Canton and district are trimmed and must not be empty.
func NewLocation(province, canton, district, additionalDetails string) (Location, error) {
	loc := Location{
		Province:          province,
		Canton:            strings.TrimSpace(canton),
		District:          strings.TrimSpace(district),
		AdditionalDetails: strings.TrimSpace(additionalDetails),
	}
	if err := ValidateLocation(&loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// PetProfile is the normalized description of an animal and where it was last seen.
type PetProfile struct {
	Species             Species  `json:"species"`
	Size                Size     `json:"size"`
	Colors              []string `json:"colors"`
	DistinctiveFeatures []string `json:"distinctive_features"`
	Breed               string   `json:"breed,omitempty"`
	ApproximateAge      Age      `json:"approximate_age,omitempty"`
	LastSeenLocation    Location `json:"last_seen_location"`
	LastSeenDate        string   `json:"last_seen_date,omitempty"`
}

// NewPetProfile normalizes list fields and validates the result.
// Colors are lowercased and trimmed, features are trimmed, and blank entries are dropped
// from both before validation.
func NewPetProfile(p PetProfile) (PetProfile, error) {
	p.Colors = cleanColors(p.Colors)
	p.DistinctiveFeatures = cleanFeatures(p.DistinctiveFeatures)
	p.Breed = strings.TrimSpace(p.Breed)
	p.LastSeenDate = strings.TrimSpace(p.LastSeenDate)
	if err := ValidatePetProfile(&p); err != nil {
		return PetProfile{}, err
	}
	return p, nil
}

func cleanColors(colors []string) []string {
	cleaned := make([]string, 0, len(colors))
	for _, c := range colors {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}

func cleanFeatures(features []string) []string {
	cleaned := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f != "" {
			cleaned = append(cleaned, f)
		}
	}
	return cleaned
}

// Report is a stored lost-pet or sighting record.
type Report struct {
	ReportID       string       `json:"report_id"`
	ReportType     ReportType   `json:"report_type"`
	Profile        PetProfile   `json:"pet_description"`
	RawDescription string       `json:"raw_description"`
	ImagePaths     []string     `json:"image_paths"`
	ContactInfo    string       `json:"contact_info,omitempty"`
	PetName        string       `json:"pet_name,omitempty"`
	ReportDate     string       `json:"report_date"`
	Status         ReportStatus `json:"status"`
}

// UserInput is the raw submission for a new lost or sighting report.
type UserInput struct {
	Images      []string   `json:"images"`
	Description string     `json:"description"`
	Location    Location   `json:"location"`
	ContactInfo string     `json:"contact_info,omitempty"`
	PetName     string     `json:"pet_name,omitempty"`
	ReportType  ReportType `json:"report_type"`
}

// MaxImages is the number of images a single submission may carry.
const MaxImages = 5

// MinDescriptionLength is the shortest free-text description accepted.
const MinDescriptionLength = 10

// ProcessingMetadata records how a request was processed.
type ProcessingMetadata struct {
	StartTime             string  `json:"start_time"`
	EndTime               string  `json:"end_time"`
	ElapsedSeconds        float64 `json:"processing_time_seconds"`
	Scorer                string  `json:"scorer"`
	TotalMatchesFound     int     `json:"total_matches_found"`
	MatchesAboveThreshold int     `json:"matches_above_threshold"`
}

// FinalOutput is the complete response for a processed submission.
type FinalOutput struct {
	EnrichedProfile    PetProfile         `json:"enriched_profile"`
	Matches            MatchResult        `json:"matches"`
	Explanation        string             `json:"explanation"`
	RecommendedActions []string           `json:"recommended_actions"`
	ConfidenceSummary  string             `json:"confidence_summary"`
	ProcessingMetadata ProcessingMetadata `json:"processing_metadata"`
}
