// Package validation holds the shared field format checks used by the
// step validator. Structural payload validation against JSON schemas is
// handled by gojsonschema at the submission boundary, not here.
package validation

import (
	"regexp"
	"time"
)

const DateLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s]+$`)
	phoneNoise   = regexp.MustCompile(`[^\d+]`)
)

// ValidEmail reports whether the value looks like a deliverable address.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// CleanPhone strips separators and punctuation, keeping digits and a
// leading plus, so formatted numbers like "+91 98765-43210" validate.
func CleanPhone(value string) string {
	return phoneNoise.ReplaceAllString(value, "")
}

// ValidPhone reports whether the cleaned value is a plausible phone
// number of 10 to 15 digits.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(CleanPhone(value))
}

func ValidURL(value string) bool {
	return urlPattern.MatchString(value)
}

// ValidDate reports whether the value is an ISO calendar date.
func ValidDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}
