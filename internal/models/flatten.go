package models

import (
	"regexp"
	"strings"
)

// Flatten projects the nested document into the flat display list. It is
// pure and deterministic: traversal follows document order (sections, then
// sub-sections, then finding templates) and duplicate headers keep their
// first occurrence only.
func Flatten(doc *IssueDocument) []DisplayIssue {
	issues := make([]DisplayIssue, 0)
	seen := make(map[string]bool)

	for _, sec := range doc.Sections {
		for _, sub := range sec.SubSections {
			for _, ft := range sub.FindingTemplates {
				st := ft.SemTemplate
				if seen[st.SemHeader] {
					continue
				}
				seen[st.SemHeader] = true
				issues = append(issues, projectTemplate(st))
			}
		}
	}

	return issues
}

func projectTemplate(st SemTemplate) DisplayIssue {
	issue := DisplayIssue{
		ID:              st.SemHeader,
		Name:            st.SemHeader,
		Category:        CanonicalCategory(st.SemCategory),
		Description:     st.SemLongDescription,
		Recommendations: NormalizeRecommendations(st.SemRecommendations),
	}

	if ref, ok := FirstReference(st.SemResolutionInstruction); ok {
		issue.Reference = ref
	}

	if st.SeverityScore.Valid {
		score := st.SeverityScore.Value
		issue.SeverityScore = &score
		issue.Severity = BucketSeverity(score)
	}

	return issue
}

// recSplitRe splits legacy single-string recommendations on newlines and
// bullet markers.
var recSplitRe = regexp.MustCompile("\r?\n|•|- ")

// NormalizeRecommendations trims entries and drops empties. The legacy
// scalar form is additionally split on newlines and bullet markers, since it
// stored the whole recommendation text as one string; when splitting drops
// everything the original string survives as a one-element list. Array
// entries are never split, whatever they contain.
func NormalizeRecommendations(recs StringList) []string {
	if recs.Len() == 0 {
		return nil
	}

	if recs.IsScalar() {
		single := recs.Values()[0]
		if strings.TrimSpace(single) == "" {
			return nil
		}
		var out []string
		for _, part := range recSplitRe.Split(single, -1) {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		if len(out) == 0 {
			return []string{single}
		}
		return out
	}

	var out []string
	for _, rec := range recs.Values() {
		rec = strings.TrimSpace(rec)
		if rec != "" {
			out = append(out, rec)
		}
	}
	return out
}

// domainRe matches a bare hostname with an optional path, the shape users
// paste when they drop the scheme.
var domainRe = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?)+(?:/[^\s]*)?$`)

// NormalizeReference validates a resolution-instruction entry as a reference
// URL. Entries already carrying an http(s) scheme pass through unchanged,
// bare domain-like entries get https:// prefixed, anything else is rejected.
func NormalizeReference(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw, true
	}

	if domainRe.MatchString(raw) {
		return "https://" + raw, true
	}

	return "", false
}

// FirstReference scans resolution instructions in order and returns the first
// entry that normalizes to a valid URL.
func FirstReference(instructions StringList) (string, bool) {
	for _, entry := range instructions.Values() {
		if ref, ok := NormalizeReference(entry); ok {
			return ref, true
		}
	}
	return "", false
}
