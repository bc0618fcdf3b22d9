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


package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/poiesic/petmatch/core"
)

// MarshalReport serializes a Report to its document form.
func MarshalReport(report *core.Report) ([]byte, error) {
	doc := *report
	if doc.ImagePaths == nil {
		doc.ImagePaths = []string{}
	}
	if doc.Profile.DistinctiveFeatures == nil {
		doc.Profile.DistinctiveFeatures = []string{}
	}
	data, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalReport deserializes a Report from its document form.
// A missing status defaults to active. The decoded report is validated;
// any failure is reported as ErrRecordCorrupt.
func UnmarshalReport(data []byte) (*core.Report, error) {
	var report core.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordCorrupt, err)
	}
	return NormalizeReport(&report)
}

// ReportDateLayout is the form in which report dates are filled in.
const ReportDateLayout = "2006-01-02T15:04:05"

// NormalizeReport fills defaults on a decoded report and validates it.
// A missing report date becomes the current time.
func NormalizeReport(report *core.Report) (*core.Report, error) {
	if strings.TrimSpace(report.ReportDate) == "" {
		report.ReportDate = time.Now().Format(ReportDateLayout)
	}
	if report.Status == "" {
		report.Status = core.StatusActive
	}
	if report.ImagePaths == nil {
		report.ImagePaths = []string{}
	}
	profile, err := core.NewPetProfile(report.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRecordCorrupt, report.ReportID, err)
	}
	report.Profile = profile
	if err := core.ValidateReport(report); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRecordCorrupt, report.ReportID, err)
	}
	return report, nil
}

// MarshalVector packs a vector as little-endian float32 values.
func MarshalVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// UnmarshalVector unpacks a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: vector length %d is not a multiple of 4", ErrTruncatedData, len(data))
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}
