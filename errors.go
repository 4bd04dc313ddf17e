package goredact

import "github.com/pkg/errors"

var (
	// ErrDepthExceeded is returned when a value, or a document embedded in one of
	// its strings, is nested deeper than the sanitizer's MaxDepth. No partial
	// result accompanies it: callers must not log the raw payload instead.
	ErrDepthExceeded = errors.New("goredact: maximum traversal depth exceeded")

	// ErrInvalidRules is returned by NewSanitizer for an unusable Rules value.
	ErrInvalidRules = errors.New("goredact: invalid rules")
)

// UnsafePayload is logged in place of a payload that could not be sanitized.
const UnsafePayload = "[REDACTION FAILED]"

func depthExceeded(limit int) error {
	return errors.Wrapf(ErrDepthExceeded, "limit %d", limit)
}
