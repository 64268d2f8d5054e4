// Package models contains the data structures for Facet security issues:
// the nested persisted document and the flat display projection.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// IssueDocument is the persisted root. One document per deployment.
type IssueDocument struct {
	Sections []Section `json:"sections"`
}

// Section groups sub-sections. Order is display order.
type Section struct {
	Title       string       `json:"title"`
	SubSections []SubSection `json:"sub_sections"`
}

// SubSection groups finding templates.
type SubSection struct {
	Title            string            `json:"title"`
	FindingTemplates []FindingTemplate `json:"finding_templates"`
}

// FindingTemplate wraps a single SemTemplate. The wrapper carries no fields
// of its own; the nesting is an artifact of the persisted shape.
type FindingTemplate struct {
	SemTemplate SemTemplate `json:"sem_template"`
}

// SemTemplate is the actual issue record. SemHeader doubles as the record's
// identity across the whole document.
type SemTemplate struct {
	SemHeader                string     `json:"sem_header"`
	SemCategory              string     `json:"sem_category"`
	SeverityScore            Score      `json:"severity_score"`
	SemLongDescription       string     `json:"sem_long_description"`
	SemRecommendations       StringList `json:"sem_recommendations"`
	SemResolutionInstruction StringList `json:"sem_resolution_instruction"`
}

// Default container titles used when a create has no section to target.
const (
	DefaultSectionTitle    = "Default Section"
	DefaultSubSectionTitle = "Default Subsection"
)

// EnsureDefaultContainers guarantees the document has at least one Section
// holding at least one SubSection, creating placeholder containers when
// absent. It returns the first Section and SubSection, which is where create
// operations insert. Idempotent.
func EnsureDefaultContainers(doc *IssueDocument) (*Section, *SubSection) {
	if len(doc.Sections) == 0 {
		doc.Sections = append(doc.Sections, Section{Title: DefaultSectionTitle})
	}
	sec := &doc.Sections[0]
	if len(sec.SubSections) == 0 {
		sec.SubSections = append(sec.SubSections, SubSection{Title: DefaultSubSectionTitle})
	}
	return sec, &sec.SubSections[0]
}

// StringList is a tagged union over the two persisted shapes of list fields:
// newer documents store an array, legacy documents a bare string. The shape
// is remembered through unmarshalling because projection rules treat the two
// differently.
type StringList struct {
	values []string
	scalar bool
}

// NewStringList builds the array form.
func NewStringList(values ...string) StringList {
	if values == nil {
		values = []string{}
	}
	return StringList{values: values}
}

// ScalarString builds the legacy scalar form.
func ScalarString(value string) StringList {
	return StringList{values: []string{value}, scalar: true}
}

// Values returns the entries in order.
func (s StringList) Values() []string {
	return s.values
}

// Len returns the number of entries.
func (s StringList) Len() int {
	return len(s.values)
}

// IsScalar reports whether the persisted form was a bare string.
func (s StringList) IsScalar() bool {
	return s.scalar
}

// IsZero reports whether the field was null or never set, as opposed to an
// empty array.
func (s StringList) IsZero() bool {
	return s.values == nil && !s.scalar
}

// UnmarshalJSON accepts a string, an array of JSON scalars, or null.
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = StringList{}
		return nil
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		*s = ScalarString(single)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case json.Number:
			out = append(out, t.String())
		case bool:
			out = append(out, strconv.FormatBool(t))
		case nil:
			// skip
		default:
			b, err := json.Marshal(t)
			if err != nil {
				return err
			}
			out = append(out, string(b))
		}
	}
	*s = StringList{values: out}
	return nil
}

// MarshalJSON preserves the persisted shape: the legacy scalar form writes
// back a bare string, everything else an array. Null and unset both write an
// empty array.
func (s StringList) MarshalJSON() ([]byte, error) {
	if s.scalar && len(s.values) == 1 {
		return json.Marshal(s.values[0])
	}
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}

// Score is a severity score that tolerates legacy encodings: a JSON number,
// a numeric string, or null. Valid is false for null and for values that
// cannot be read as a number.
type Score struct {
	Value float64
	Valid bool
}

// NewScore returns a valid Score.
func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (sc *Score) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*sc = Score{}
		return nil
	}

	var num float64
	if err := json.Unmarshal(trimmed, &num); err == nil {
		*sc = Score{Value: num, Valid: true}
		return nil
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		parsed, perr := strconv.ParseFloat(str, 64)
		if perr != nil {
			*sc = Score{}
			return nil
		}
		*sc = Score{Value: parsed, Valid: true}
		return nil
	}

	*sc = Score{}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (sc Score) MarshalJSON() ([]byte, error) {
	if !sc.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(sc.Value)
}
