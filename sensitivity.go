package goredact

import "strings"

// SensitiveKeywords are matched case-insensitively as substrings of mapping keys.
// A key containing any of them has its value masked, e.g. "access_code" via "code".
var SensitiveKeywords = []string{
	"password", "passwd", "pwd", "secret", "token", "key", "auth",
	"credential", "authorization", "captcha", "code", "otp", "checkkey",
	"session", "cookie", "sign", "signature", "access_token", "refresh_token",
}

// TextKeywords are the parameter and field names redacted inside free text.
// The list is narrower than SensitiveKeywords and names must match exactly:
// raw text offers weak syntactic cues and a substring match on "key" or
// "code" would mask unrelated content.
var TextKeywords = []string{
	"password", "token", "key", "auth", "captcha", "checkkey",
}

// IsSensitiveField reports whether a mapping key names confidential data
// under the default keyword set.
func IsSensitiveField(name string) bool {
	return std.IsSensitiveField(name)
}

// IsSensitiveField reports whether the lower-cased name contains one of
// the sanitizer's keywords.
func (s *Sanitizer) IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
