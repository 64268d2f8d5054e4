package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want StringList
	}{
		{
			name: "array of strings",
			in:   `["patch the host","rotate keys"]`,
			want: NewStringList("patch the host", "rotate keys"),
		},
		{
			name: "legacy scalar string",
			in:   `"patch the host"`,
			want: ScalarString("patch the host"),
		},
		{
			name: "null",
			in:   `null`,
			want: StringList{},
		},
		{
			name: "mixed scalars get stringified",
			in:   `["see docs", 42, true, null]`,
			want: NewStringList("see docs", "42", "true"),
		},
		{
			name: "empty array",
			in:   `[]`,
			want: NewStringList(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringListMarshalPreservesForm(t *testing.T) {
	b, err := json.Marshal(NewStringList("one"))
	require.NoError(t, err)
	assert.JSONEq(t, `["one"]`, string(b))

	b, err = json.Marshal(ScalarString("one"))
	require.NoError(t, err)
	assert.JSONEq(t, `"one"`, string(b))

	b, err = json.Marshal(StringList{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestStringListRoundTripKeepsShape(t *testing.T) {
	for _, raw := range []string{`"free text"`, `["a","b"]`} {
		var list StringList
		require.NoError(t, json.Unmarshal([]byte(raw), &list))
		b, err := json.Marshal(list)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(b))
	}
}

func TestScoreUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantValid bool
		wantValue float64
	}{
		{"number", `0.95`, true, 0.95},
		{"numeric string", `"0.42"`, true, 0.42},
		{"null", `null`, false, 0},
		{"garbage string", `"very bad"`, false, 0},
		{"object", `{"x":1}`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Score
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.InDelta(t, tt.wantValue, got.Value, 1e-9)
			}
		})
	}
}

func TestEnsureDefaultContainers(t *testing.T) {
	t.Run("empty document gets placeholders", func(t *testing.T) {
		doc := &IssueDocument{}
		sec, sub := EnsureDefaultContainers(doc)

		require.Len(t, doc.Sections, 1)
		assert.Equal(t, DefaultSectionTitle, sec.Title)
		assert.Equal(t, DefaultSubSectionTitle, sub.Title)
	})

	t.Run("idempotent", func(t *testing.T) {
		doc := &IssueDocument{}
		EnsureDefaultContainers(doc)
		EnsureDefaultContainers(doc)

		require.Len(t, doc.Sections, 1)
		require.Len(t, doc.Sections[0].SubSections, 1)
	})

	t.Run("existing containers untouched", func(t *testing.T) {
		doc := &IssueDocument{Sections: []Section{
			{Title: "Hardening", SubSections: []SubSection{{Title: "Hosts"}}},
			{Title: "Exposure"},
		}}
		sec, sub := EnsureDefaultContainers(doc)

		assert.Equal(t, "Hardening", sec.Title)
		assert.Equal(t, "Hosts", sub.Title)
		assert.Len(t, doc.Sections, 2)
	})

	t.Run("returned pointers insert into the document", func(t *testing.T) {
		doc := &IssueDocument{}
		_, sub := EnsureDefaultContainers(doc)
		sub.FindingTemplates = append(sub.FindingTemplates, FindingTemplate{
			SemTemplate: SemTemplate{SemHeader: "Disable legacy auth"},
		})

		require.Len(t, doc.Sections[0].SubSections[0].FindingTemplates, 1)
	})
}

func TestDocumentRoundTrip(t *testing.T) {
	raw := `{
		"sections": [{
			"title": "Hardening",
			"sub_sections": [{
				"title": "Hosts",
				"finding_templates": [{
					"sem_template": {
						"sem_header": "Disable legacy auth",
						"sem_category": "Configuration Changes",
						"severity_score": "0.95",
						"sem_long_description": "Legacy auth bypasses MFA.",
						"sem_recommendations": "Disable it",
						"sem_resolution_instruction": ["docs.example.com/legacy-auth"]
					}
				}]
			}]
		}]
	}`

	var doc IssueDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	st := doc.Sections[0].SubSections[0].FindingTemplates[0].SemTemplate
	assert.Equal(t, "Disable legacy auth", st.SemHeader)
	assert.True(t, st.SeverityScore.Valid)
	assert.InDelta(t, 0.95, st.SeverityScore.Value, 1e-9)
	assert.Equal(t, ScalarString("Disable it"), st.SemRecommendations)

	// Re-marshalling keeps the legacy scalar shape; the score is written
	// back as a number.
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"sem_recommendations":"Disable it"`)
	assert.Contains(t, string(b), `"severity_score":0.95`)
}
