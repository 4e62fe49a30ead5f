// Package sanitizer normalizes user-supplied input before validation
// and persistence. Sanitizers are pure functions over strings so they
// compose with Apply.
package sanitizer

import (
	"regexp"
	"strings"
)

var consecutiveDots = regexp.MustCompile(`\.{2,}`)

// Apply runs the given transformers over the value in order.
func Apply(value string, fns ...func(string) string) string {
	for _, fn := range fns {
		value = fn(value)
	}
	return value
}

// Trim removes leading and trailing whitespace.
func Trim(value string) string {
	return strings.TrimSpace(value)
}

// NormalizeEmail lowercases the address and collapses consecutive dots
// in the local part. Invalid shapes are returned lowercased as-is so
// validation can reject them with a proper message.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := consecutiveDots.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// SingleLine collapses all whitespace runs into single spaces. Used for
// free-form profile fields that must not contain line breaks.
func SingleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
