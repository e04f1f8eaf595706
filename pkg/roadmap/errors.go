package roadmap

import "errors"

var (
	// ErrExtractionFailure aborts the pipeline: the goal could not be read.
	ErrExtractionFailure = errors.New("extraction failure")
	// ErrGenerationFailure means no usable roadmap came back, even after recovery.
	ErrGenerationFailure = errors.New("generation failure")
	// ErrFallbackParseFailure is only ever seen wrapped inside ErrGenerationFailure.
	ErrFallbackParseFailure = errors.New("fallback parse failure")
)
