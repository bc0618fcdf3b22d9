package ai

import "errors"

// ErrServiceUnavailable indicates that an AI collaborator could not be reached
// or returned an unusable response. Callers decide whether a fallback applies.
var ErrServiceUnavailable = errors.New("ai service unavailable")

// ErrInvalidConfig indicates an incomplete or inconsistent Config.
var ErrInvalidConfig = errors.New("ai config invalid")
