package models

import "strings"

// Canonical category labels shown in the browser.
const (
	CategorySoftwareUpdates      = "Software Updates"
	CategoryConfigurationChanges = "Configuration Changes"
	CategoryNetworkExposures     = "Network Exposures"
	CategorySecurityControls     = "Security Controls"
	CategoryEmailThreats         = "Email Threats"
	CategoryOther                = "Other"
)

// ValidCategories returns the fixed canonical label set, excluding Other.
func ValidCategories() []string {
	return []string{
		CategorySoftwareUpdates,
		CategoryConfigurationChanges,
		CategoryNetworkExposures,
		CategorySecurityControls,
		CategoryEmailThreats,
	}
}

// keyword checks run in order; first match wins.
var categoryKeywords = []struct {
	keyword string
	label   string
}{
	{"software", CategorySoftwareUpdates},
	{"config", CategoryConfigurationChanges},
	{"network", CategoryNetworkExposures},
	{"control", CategorySecurityControls},
	{"email", CategoryEmailThreats},
}

// CanonicalCategory maps a free-text stored category onto the canonical label
// set: exact case-insensitive match first, then case-insensitive substring
// matching on a small keyword list, otherwise Other. This is a display
// concern only; stored values are never rewritten.
func CanonicalCategory(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return CategoryOther
	}

	for _, label := range ValidCategories() {
		if lower == strings.ToLower(label) {
			return label
		}
	}

	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.label
		}
	}

	return CategoryOther
}
