package models

// Severity buckets as constants for type safety and consistency.
const (
	SeverityModerate  = "Moderate"
	SeverityImportant = "Important"
	SeverityCritical  = "Critical"
)

// Bucket boundaries for severity scores in [0, 1].
const (
	moderateMax = 0.6
	criticalMin = 0.9
)

// BucketSeverity maps a severity score to its display bucket: scores at or
// below 0.6 are Moderate, 0.9 and above are Critical, everything between is
// Important.
func BucketSeverity(score float64) string {
	switch {
	case score >= criticalMin:
		return SeverityCritical
	case score > moderateMax:
		return SeverityImportant
	default:
		return SeverityModerate
	}
}
