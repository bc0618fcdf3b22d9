// Package pipeline coordinates matching requests.
//
// The Pipeline type runs a submission through every stage:
//   - Extracting attributes from photos and text concurrently, and merging them
//   - Fetching the candidate pool, optionally filtered by report type
//   - Scoring candidates with embeddings, or the heuristic when embeddings are unavailable
//   - Ranking, thresholding and classifying confidence
//   - Explaining the result and recommending next steps
//
// Collaborator failures fall back where a fallback exists. Anything else,
// including cancellation, aborts the request with an error wrapping ErrMatchFailed.
package pipeline
