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


// Package storage provides the storage abstraction layer for petmatch.
//
// This package defines the interfaces that decouple report persistence from
// matching logic, along with the document codec every backend shares.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return interfaces:
//
//	repo, err := badger.NewReportRepository(backend)  // returns storage.ReportRepository
//
// Internal helpers may return concrete types since they're only used within
// the implementation package.
//
// # Architecture
//
//   - ReportLoader: loads the whole report collection at once
//   - ReportRepository: read/write access to stored reports
//   - EmbeddingCache: content-addressed store for embedding vectors
//
// Reports are stored in their external document form (see MarshalReport).
// A record that fails to decode is reported as ErrRecordCorrupt; loaders skip
// such records and log them instead of failing the load.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewReportRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, cache, backend, err := badger.NewMemoryRepositories()
//
// # Location and recency
//
// LocationDistance and DaysSince derive the coarse distance and age values
// attached to match candidates.
package storage
