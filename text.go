package goredact

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// patternRule is a single free-text substitution.
type patternRule struct {
	name string
	re   *regexp.Regexp
	repl string
}

// compilePatternRules builds the free-text rules for the given names.
// URL and header rules come first, inline key/value rules after them;
// every rule runs over the output of the previous one.
func compilePatternRules(keywords []string) ([]patternRule, error) {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	names := `(?:` + strings.Join(quoted, "|") + `)`

	defs := []struct {
		name    string
		pattern string
		repl    string
	}{
		// ?token=abc&id=1 → ?token=***&id=1
		{"query_param", `(?i)([?&]` + names + `=)[^&\s]+`, "${1}***"},
		// Authorization: Basic dXNlcjpwYXNz → Authorization: Bearer ***
		{"authorization_header", `(?i)(authorization:[ \t]*)\S[^\r\n]*`, "${1}Bearer ***"},
		// Cookie: sid=1; theme=dark → Cookie: ***
		{"cookie_header", `(?i)(cookie:[ \t]*)\S[^\r\n]*`, "${1}***"},
		// "password": "hunter2" → "password": "***"
		{"json_string", `(?i)("` + names + `"\s*:\s*")(?:[^"\\]|\\.)+(")`, "${1}***${2}"},
		// "captcha": 1234 → "captcha": ***
		{"json_number", `(?i)("` + names + `"\s*:\s*)-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`, "${1}***"},
		// 'token': 'abc' → 'token': '***'
		{"quoted_string", `(?i)('` + names + `'\s*:\s*')(?:[^'\\]|\\.)+(')`, "${1}***${2}"},
	}

	rules := make([]patternRule, 0, len(defs))
	for _, def := range defs {
		re, err := regexp.Compile(def.pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %s", def.name)
		}
		rules = append(rules, patternRule{name: def.name, re: re, repl: def.repl})
	}
	return rules, nil
}

// RedactText redacts text with the default sanitizer.
func RedactText(text string) (string, error) {
	return std.RedactText(text)
}

// RedactText scrubs a string that is not known to be a sensitive value itself.
//
// If text is a JSON document it is decoded, sanitized as structured data and
// re-encoded as compact JSON. Otherwise the URL, header and inline key/value
// patterns are applied in order. Text matching no rule is returned unchanged.
func (s *Sanitizer) RedactText(text string) (string, error) {
	return s.redactText(text, 0)
}

func (s *Sanitizer) redactText(text string, depth int) (string, error) {
	if text == "" {
		return text, nil
	}
	// The decoded document sits one level below the string holding it.
	doc, err := ParseJSON(text, s.maxDepth-depth-1)
	if err == nil {
		out, err := s.walk(doc, depth+1)
		if err != nil {
			return "", err
		}
		b, err := EncodeJSON(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if errors.Is(err, ErrDepthExceeded) {
		return "", depthExceeded(s.maxDepth)
	}
	return s.applyRules(text), nil
}

func (s *Sanitizer) applyRules(text string) string {
	for _, r := range s.rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}
