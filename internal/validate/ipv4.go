package validate

import (
	"regexp"
	"strings"
	"unicode"
)

// ipv4Prefix matches four dot-separated digit groups at the start of a string.
// It is deliberately not anchored at the end: "10.0.0.0/8" and "1.2.3.4junk"
// are both accepted so CIDR prefixes pass through untouched. Octet ranges are
// not checked.
var ipv4Prefix = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)

// IPv4 normalises a candidate address taken from a vendor response.
// All whitespace is removed; the remainder is returned unchanged when it
// starts with an IPv4 literal. ok is false for empty input or a mismatch.
func IPv4(raw string) (ip string, ok bool) {
	ip = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if ip == "" || !ipv4Prefix.MatchString(ip) {
		return "", false
	}
	return ip, true
}
