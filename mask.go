package goredact

const maskMarker = "***"

// Mask returns the redacted replacement for a value bound to a sensitive key.
//
// Null stays Null. Everything else is rendered to its canonical string form
// and truncated by length (in runes):
//   - 0     → ""
//   - 1..3  → "***"
//   - 4..8  → first rune + "***" + last rune, "hunter2" → "h***2"
//   - 9+    → first 2 runes + "***" + last 2 runes, "abcdefghij" → "ab***ij"
//
// A string that already has one of these shapes is returned as is, so masking
// twice gives the same result as masking once. The flip side is that a secret
// which happens to look masked, such as the 7-rune "ab***cd" or the 5-rune
// "a***b", is logged unchanged.
func Mask(v Value) Value {
	switch v.(type) {
	case nil, Null:
		return Null{}
	}
	s := textOf(v)
	if _, ok := v.(String); ok && isMasked(s) {
		return String(s)
	}
	return String(maskString(s))
}

func maskString(s string) string {
	r := []rune(s)
	switch n := len(r); {
	case n == 0:
		return ""
	case n <= 3:
		return maskMarker
	case n <= 8:
		return string(r[:1]) + maskMarker + string(r[n-1:])
	default:
		return string(r[:2]) + maskMarker + string(r[n-2:])
	}
}

// isMasked reports whether s is a possible output of maskString.
func isMasked(s string) bool {
	r := []rune(s)
	switch len(r) {
	case 3:
		return s == maskMarker
	case 5:
		return string(r[1:4]) == maskMarker
	case 7:
		return string(r[2:5]) == maskMarker
	}
	return false
}
