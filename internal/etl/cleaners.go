package etl

import (
	"regexp"
	"strings"
)

var (
	nonPhoneChars = regexp.MustCompile(`[^0-9+]`)
	countryPrefix = regexp.MustCompile(`^\+?90`)
	leadingZeros  = regexp.MustCompile(`^0+`)
	spaceRuns     = regexp.MustCompile(`\s+`)
	emailShape    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// CleanPhone normalizes a raw phone value to the national number: formatting
// stripped, the "90" country prefix and leading zeros removed, capped to the
// last 10 digits when longer.
func CleanPhone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	digits := nonPhoneChars.ReplaceAllString(s, "")
	digits = countryPrefix.ReplaceAllString(digits, "")
	digits = leadingZeros.ReplaceAllString(digits, "")
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// CleanEmail lowercases and validates the email shape. The boolean reports
// whether the value passed the structural check.
func CleanEmail(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || !emailShape.MatchString(s) {
		return "", false
	}
	return s, true
}

// SplitName splits a full name into first and last parts; everything after
// the first word becomes the last name.
func SplitName(fullName string) (firstName, lastName string) {
	s := spaceRuns.ReplaceAllString(strings.TrimSpace(fullName), " ")
	if s == "" {
		return "", ""
	}
	parts := strings.SplitN(s, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// CleanName trims and collapses internal whitespace, preserving case.
func CleanName(raw string) string {
	return spaceRuns.ReplaceAllString(strings.TrimSpace(raw), " ")
}
