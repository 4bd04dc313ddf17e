package goredact_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/muhammadluth/goredact"
)

func TestRedactHTTPHeaders(t *testing.T) {
	headers := map[string][]string{
		"Authorization": {"Bearer eyJhbGciOi"},
		"Cookie":        {"sid=1", "theme=dark"},
		"X-Api-Key":     {"abc"},
		"Content-Type":  {"application/json"},
		"Referer":       {"https://example.com/cb?token=abc123"},
	}
	want := map[string][]string{
		"Authorization": {"Be***Oi"},
		"Cookie":        {"s***1", "th***rk"},
		"X-Api-Key":     {"***"},
		"Content-Type":  {"application/json"},
		"Referer":       {"https://example.com/cb?token=***"},
	}

	got := goredact.RedactHTTPHeaders(headers)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RedactHTTPHeaders =\n%v\nwant\n%v", got, want)
	}
	if headers["Authorization"][0] != "Bearer eyJhbGciOi" {
		t.Error("input headers were modified")
	}
}

func TestRedactHTTPHeadersEmpty(t *testing.T) {
	if got := goredact.RedactHTTPHeaders(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestRedactJSONBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"JSONBody", `{"username":"admin","password":"secret123"}`, `{"username":"admin","password":"se***23"}`},
		{"FormBody", "grant_type=password&password=hunter2", "grant_type=password&password=***"},
		{"Empty", "", ""},
		{"TooDeep", strings.Repeat("[", 80) + strings.Repeat("]", 80), goredact.UnsafePayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := goredact.RedactJSONBytes([]byte(tt.input)); got != tt.expected {
				t.Errorf("RedactJSONBytes(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func newIBANSanitizer(t *testing.T) *goredact.Sanitizer {
	t.Helper()
	s, err := goredact.NewSanitizer(goredact.Rules{
		Keywords:     []string{"iban"},
		TextKeywords: []string{"iban"},
		MaxDepth:     2,
	})
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	return s
}

func TestSanitizerRedactHTTPHeaders(t *testing.T) {
	s := newIBANSanitizer(t)
	headers := map[string][]string{
		"X-Iban":        {"DE89370400440532013000"},
		"Authorization": {"Bearer abc"},
		"Referer":       {"https://example.com/cb?iban=DE89&token=abc"},
	}
	want := map[string][]string{
		"X-Iban":        {"DE***00"},
		"Authorization": {"Bearer abc"},
		"Referer":       {"https://example.com/cb?iban=***&token=abc"},
	}
	if got := s.RedactHTTPHeaders(headers); !reflect.DeepEqual(got, want) {
		t.Errorf("RedactHTTPHeaders =\n%v\nwant\n%v", got, want)
	}
}

func TestSanitizerRedactJSONBytes(t *testing.T) {
	s := newIBANSanitizer(t)
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"CustomKeyword", `{"iban":"DE89370400440532013000","password":"hunter2"}`, `{"iban":"DE***00","password":"hunter2"}`},
		{"PastCustomDepth", `[[[1]]]`, goredact.UnsafePayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.RedactJSONBytes([]byte(tt.input)); got != tt.expected {
				t.Errorf("RedactJSONBytes(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
