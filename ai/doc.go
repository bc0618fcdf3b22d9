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


// Package ai provides abstractions for AI services used in petmatch.
//
// This package defines interfaces for the AI collaborators around the
// matching core: text embeddings, attribute extraction from descriptions
// and photos, and natural-language explanations of match results. The
// matching logic depends on these abstractions rather than on a concrete
// model host.
//
// # Design Principles
//
// The package is designed around four interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - AttributeExtractor: Reads pet attributes from text and images
//   - Explainer: Phrases match results and next steps
//   - AIProvider: Aggregates AI services for convenient initialization
//
// Every collaborator may fail. Failures are reported wrapping
// ErrServiceUnavailable and callers apply their own fallback.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockExtractor) return CONCRETE types to enable test assertions and
// behavior injection via the mock's public methods (CallCount, WithXFunc, Reset).
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "medium dog | colors: white")
//	attrs, err := provider.AttributeExtractor().ExtractFromText(ctx, "brown beagle with a red collar", loc)
//
//	// Testing usage with mocks
//	mockProvider := mock.NewMockProvider()
//	vec, err := mockProvider.Embedder().EmbedText(ctx, "test text")
package ai
