package common

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	stateCodePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)
	zipPattern       = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateStateCode validates a 2-letter state/region abbreviation
func ValidateStateCode(value, fieldName string) error {
	if !stateCodePattern.MatchString(strings.TrimSpace(value)) {
		return fmt.Errorf("%s must be a 2-letter state abbreviation", fieldName)
	}
	return nil
}

// NormalizeStateCode upper-cases and trims a state abbreviation
func NormalizeStateCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// ValidateZip validates a US ZIP code (5 digits, optional +4)
func ValidateZip(value, fieldName string) error {
	if !zipPattern.MatchString(strings.TrimSpace(value)) {
		return fmt.Errorf("%s must be a valid ZIP code", fieldName)
	}
	return nil
}

// ValidateEmail validates an email address shape. Deliverability is the
// payment provider's problem, not ours.
func ValidateEmail(value, fieldName string) error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return fmt.Errorf("%s must be a valid email address", fieldName)
	}
	return nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// JoinAddress flattens structured address components into one display
// string, omitting empty components. The separator is stable so rendered
// certificates stay deterministic.
func JoinAddress(components ...string) string {
	parts := make([]string, 0, len(components))
	for _, comp := range components {
		if strings.TrimSpace(comp) != "" {
			parts = append(parts, strings.TrimSpace(comp))
		}
	}
	return strings.Join(parts, ", ")
}
