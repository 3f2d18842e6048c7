package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const licenseKeyPrefix = "NILPF"

// GenerateLicenseKey derives the license key for a verified purchase:
// NILPF-<JUR>-<UTC second-precision timestamp>-<suffix>. The suffix is
// derived from the transaction reference so two issuances in the same second
// for the same jurisdiction cannot collide.
func GenerateLicenseKey(jurisdiction, reference string, issuedAt time.Time) string {
	stamp := issuedAt.UTC().Format("20060102150405")
	jur := normalizeJurisdiction(jurisdiction)

	suffix := referenceSuffix(reference)
	if suffix == "" {
		return fmt.Sprintf("%s-%s-%s", licenseKeyPrefix, jur, stamp)
	}
	return fmt.Sprintf("%s-%s-%s-%s", licenseKeyPrefix, jur, stamp, suffix)
}

// normalizeJurisdiction upper-cases and truncates to 2 characters, with
// "NA" as the sentinel for an absent jurisdiction.
func normalizeJurisdiction(jurisdiction string) string {
	jur := strings.ToUpper(strings.TrimSpace(jurisdiction))
	if jur == "" {
		return "NA"
	}
	if len(jur) > 2 {
		jur = jur[:2]
	}
	return jur
}

func referenceSuffix(reference string) string {
	if reference == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(reference))
	return strings.ToUpper(hex.EncodeToString(sum[:3]))
}
