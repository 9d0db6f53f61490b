package services

import (
	"errors"
	"fmt"
)

// ErrNoProfile signals that the requesting user has never saved a profile.
// Callers redirect to profile creation; it is not an empty-result case.
var ErrNoProfile = errors.New("profile not found")

// GenerationError means the external text generation failed or returned a
// malformed payload. The pipeline cannot proceed; callers may retry whole.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("itinerary generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("itinerary generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError means the generated text did not yield the required number of
// activities. Recovered reports how many well-formed lines were found.
type ParseError struct {
	Recovered int
	Want      int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could only parse %d of %d activities", e.Recovered, e.Want)
}
