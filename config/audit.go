package config

import (
	"sort"
	"strings"

	"github.com/muhammadluth/goredact"
)

// Issue is a configuration entry that probably holds a plaintext secret.
type Issue struct {
	Key     string `json:"entry"`
	Message string `json:"message"`
}

// baseURLMarkers are the substrings that suggest a credential embedded in base_url.
var baseURLMarkers = []string{"password", "token", "key"}

// Audit inspects the top-level entries of data. A sensitive key bound to a
// non-empty string that is not already masked, or a base_url carrying a
// credential marker, yields an Issue. Keys are reported in sorted order.
func Audit(data map[string]any, s *goredact.Sanitizer) []Issue {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var issues []Issue
	for _, k := range keys {
		if !s.IsSensitiveField(k) {
			continue
		}
		v, ok := data[k].(string)
		if !ok || v == "" || strings.HasPrefix(v, "***") {
			continue
		}
		issues = append(issues, Issue{Key: k, Message: "value may be a plaintext secret"})
	}

	if baseURL, ok := data["base_url"].(string); ok {
		lower := strings.ToLower(baseURL)
		for _, marker := range baseURLMarkers {
			if strings.Contains(lower, marker) {
				issues = append(issues, Issue{Key: "base_url", Message: "URL may embed a credential"})
				break
			}
		}
	}
	return issues
}
