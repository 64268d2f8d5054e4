package store

import (
	"encoding/json"

	_ "embed"

	"github.com/joshsymonds/facet/internal/models"
)

//go:embed seed.json
var seedJSON []byte

// SeedDocument returns a fresh copy of the bundled starter document used when
// no persisted document exists yet.
func SeedDocument() *models.IssueDocument {
	var doc models.IssueDocument
	if err := json.Unmarshal(seedJSON, &doc); err != nil {
		return &models.IssueDocument{Sections: []models.Section{}}
	}
	return &doc
}
