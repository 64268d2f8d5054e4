package models

// DisplayIssue is the flat, UI-consumable projection of one SemTemplate.
// ID and Name are both the sem_header; the header is the record's identity.
type DisplayIssue struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Reference       string   `json:"reference,omitempty"`
	SeverityScore   *float64 `json:"severityScore,omitempty"`
	Severity        string   `json:"severity,omitempty"`
}
