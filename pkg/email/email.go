// Package email holds the address validation and normalization rules shared
// by the intake endpoint and the widget client. Both sides must agree on what
// counts as a valid address, otherwise the widget would let through input the
// server rejects.
package email

import (
	"regexp"
	"strings"
)

// Deliberately permissive: local-part@domain.tld with no whitespace and no
// second @. Tightening this would reject addresses the service historically
// accepted.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Valid reports whether s looks like an email address.
func Valid(s string) bool {
	return addressPattern.MatchString(s)
}

// Normalize returns the canonical form used as the dedupe key.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
