// Package validate provides shared input validation helpers.
package validate

import "regexp"

// domainRegexp validates RFC-compliant hostnames.
var domainRegexp = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsDomain reports whether s is a valid RFC-compliant hostname.
// Hostnames built from request parameters (zscaler cloud, polycom service)
// are checked with it before they reach a URL or a DNS query.
func IsDomain(s string) bool {
	return len(s) <= 253 && domainRegexp.MatchString(s)
}
