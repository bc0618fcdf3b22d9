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


// Package similarity scores how alike two pet profiles are.
//
// Two interchangeable strategies implement Scorer: a deterministic weighted
// heuristic over profile fields, and a vector strategy comparing embeddings
// of each profile's canonical text. Both return scores in [0, 1].
package similarity

import (
	"context"
	"errors"

	"github.com/poiesic/petmatch/core"
)

// Scorer computes a similarity in [0, 1] between a query and a candidate profile.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, query, candidate *core.PetProfile) (float64, error)

	// Name identifies the strategy in logs and processing metadata.
	Name() string
}

var (
	// ErrDimensionMismatch indicates two vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyVector indicates an embedding with no components.
	ErrEmptyVector = errors.New("empty vector")
)
