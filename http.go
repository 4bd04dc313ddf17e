package goredact

// RedactHTTPHeaders returns a copy of headers safe to log. Values of headers
// with sensitive names (Authorization, Cookie, X-Api-Key, ...) are masked,
// the remaining values go through RedactText. It uses the default rules.
//
// Example:
//
//	headers := map[string][]string{
//	    "Authorization": {"Bearer eyJhbGciOi"},
//	    "Content-Type":  {"application/json"},
//	}
//	masked := goredact.RedactHTTPHeaders(headers)
//	// {"Authorization": ["Be***Oi"], "Content-Type": ["application/json"]}
func RedactHTTPHeaders(headers map[string][]string) map[string][]string {
	return std.RedactHTTPHeaders(headers)
}

// RedactHTTPHeaders is RedactHTTPHeaders under the rules of s.
func (s *Sanitizer) RedactHTTPHeaders(headers map[string][]string) map[string][]string {
	result := make(map[string][]string, len(headers))
	for name, values := range headers {
		sensitive := s.IsSensitiveField(name)
		masked := make([]string, len(values))
		for i, v := range values {
			if sensitive {
				masked[i] = textOf(Mask(String(v)))
				continue
			}
			out, err := s.RedactText(v)
			if err != nil {
				out = UnsafePayload
			}
			masked[i] = out
		}
		result[name] = masked
	}
	return result
}

// RedactJSONBytes sanitizes a request or response body with the default
// rules. JSON bodies are sanitized field by field and re-encoded; anything
// else is pattern-redacted. A body too deeply nested to sanitize is replaced
// by UnsafePayload.
//
// Example:
//
//	body := []byte(`{"username":"admin","password":"secret123"}`)
//	masked := goredact.RedactJSONBytes(body)
//	// {"username":"admin","password":"se***23"}
func RedactJSONBytes(data []byte) string {
	return std.RedactJSONBytes(data)
}

// RedactJSONBytes is RedactJSONBytes under the rules of s.
func (s *Sanitizer) RedactJSONBytes(data []byte) string {
	out, err := s.RedactText(string(data))
	if err != nil {
		return UnsafePayload
	}
	return out
}
