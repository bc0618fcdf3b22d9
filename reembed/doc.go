// Package reembed warms the embedding cache for stored reports.
//
// Every report's profile is rendered to its canonical text, embedded in
// batches with retry and exponential backoff, normalized to unit length and
// written to the cache under its content key. Profiles that share canonical
// text are embedded once. Run it after changing embedding models (with
// Force) or after a bulk import so that matching requests find candidate
// vectors already cached.
package reembed
