package goredact

import (
	"github.com/pkg/errors"
)

// DefaultMaxDepth bounds how deeply Sanitize descends, counting container
// levels and documents decoded out of strings.
const DefaultMaxDepth = 50

// Rules is the immutable configuration of a Sanitizer.
type Rules struct {
	// Keywords decide which mapping keys are sensitive (substring match).
	Keywords []string
	// TextKeywords are the names redacted by the free-text patterns (exact match).
	TextKeywords []string
	// MaxDepth is the deepest level Sanitize visits below the root value.
	MaxDepth int
}

// DefaultRules returns the built-in keyword sets and DefaultMaxDepth.
func DefaultRules() Rules {
	return Rules{
		Keywords:     append([]string(nil), SensitiveKeywords...),
		TextKeywords: append([]string(nil), TextKeywords...),
		MaxDepth:     DefaultMaxDepth,
	}
}

// Sanitizer masks sensitive content in values and text.
// It holds no mutable state and is safe for concurrent use.
type Sanitizer struct {
	keywords []string
	rules    []patternRule
	maxDepth int
}

var std = mustSanitizer(DefaultRules())

// Default returns the process-wide sanitizer built from DefaultRules.
func Default() *Sanitizer {
	return std
}

// NewSanitizer validates r and compiles its text patterns.
func NewSanitizer(r Rules) (*Sanitizer, error) {
	if r.MaxDepth <= 0 {
		return nil, errors.Wrapf(ErrInvalidRules, "max depth must be positive, got %d", r.MaxDepth)
	}
	keywords := normalizeKeywords(r.Keywords)
	if len(keywords) == 0 {
		return nil, errors.Wrap(ErrInvalidRules, "no sensitive keywords")
	}
	textKeywords := normalizeKeywords(r.TextKeywords)
	if len(textKeywords) == 0 {
		return nil, errors.Wrap(ErrInvalidRules, "no text keywords")
	}
	rules, err := compilePatternRules(textKeywords)
	if err != nil {
		return nil, errors.Wrap(err, "goredact: compile text rules")
	}
	return &Sanitizer{
		keywords: keywords,
		rules:    rules,
		maxDepth: r.MaxDepth,
	}, nil
}

func mustSanitizer(r Rules) *Sanitizer {
	s, err := NewSanitizer(r)
	if err != nil {
		panic(err)
	}
	return s
}

// MaxDepth returns the traversal limit of s.
func (s *Sanitizer) MaxDepth() int {
	return s.maxDepth
}

// Sanitize sanitizes v with the default sanitizer.
func Sanitize(v Value) (Value, error) {
	return std.Sanitize(v)
}

// SanitizeAny converts v with FromAny, sanitizes it with the default
// sanitizer and converts the result back with ToAny.
func SanitizeAny(v any) (any, error) {
	return std.SanitizeAny(v)
}

// Sanitize returns a copy of v with sensitive content masked. The shape of
// v is preserved: mappings keep their keys and order, sequences their length.
// Values under sensitive keys are replaced by Mask, strings elsewhere go
// through RedactText, and numbers and booleans pass through.
//
// It fails with an error wrapping ErrDepthExceeded when v is nested deeper
// than the configured limit.
func (s *Sanitizer) Sanitize(v Value) (Value, error) {
	return s.walk(v, 0)
}

// SanitizeAny is Sanitize over plain Go values. Numbers come back as json.Number.
// A value nested deeper than the limit, or one that contains itself, fails
// with an error wrapping ErrDepthExceeded.
func (s *Sanitizer) SanitizeAny(v any) (any, error) {
	out, err := s.sanitizeAny(v)
	if err != nil {
		return nil, err
	}
	return ToAny(out), nil
}

func (s *Sanitizer) sanitizeAny(v any) (Value, error) {
	tree, err := fromAny(v, 0, s.maxDepth)
	if err != nil {
		return nil, err
	}
	return s.walk(tree, 0)
}

func (s *Sanitizer) walk(v Value, depth int) (Value, error) {
	if depth > s.maxDepth {
		return nil, depthExceeded(s.maxDepth)
	}
	switch t := v.(type) {
	case nil, Null:
		return Null{}, nil
	case Bool, Number:
		return t, nil
	case String:
		out, err := s.redactText(string(t), depth)
		if err != nil {
			return nil, err
		}
		return String(out), nil
	case Sequence:
		out := make(Sequence, len(t))
		for i, item := range t {
			sv, err := s.walk(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return out, nil
	case Mapping:
		out := make(Mapping, len(t))
		for i, e := range t {
			if s.IsSensitiveField(e.Key) {
				out[i] = Entry{Key: e.Key, Value: Mask(e.Value)}
				continue
			}
			sv, err := s.walk(e.Value, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = Entry{Key: e.Key, Value: sv}
		}
		return out, nil
	default:
		// Foreign values are stringified and treated like any other text.
		out, err := s.redactText(textOf(t), depth)
		if err != nil {
			return nil, err
		}
		return String(out), nil
	}
}
