// Package issues implements the mutation engine and projections over the
// issue document.
package issues

import (
	"context"
	"strings"
	"sync"

	"github.com/joshsymonds/facet/internal/models"
	"github.com/joshsymonds/facet/internal/store"
	"github.com/joshsymonds/facet/pkg/logger"
)

// Service owns the read-modify-write cycle against the document store. A
// single mutex serializes writers within the process; concurrent writers in
// other processes are last-writer-wins.
type Service struct {
	store  store.Store
	logger logger.Logger
	mu     sync.Mutex
}

// NewService creates an issue service over the given store.
func NewService(st store.Store, log logger.Logger) *Service {
	return &Service{store: st, logger: log}
}

// CreatePayload carries the fields of a new issue. Scalar-or-array fields
// are already normalized to lists by the model's unmarshalling.
type CreatePayload struct {
	SemHeader                string            `json:"sem_header"`
	SemCategory              string            `json:"sem_category"`
	SeverityScore            models.Score      `json:"severity_score"`
	SemLongDescription       string            `json:"sem_long_description"`
	SemRecommendations       models.StringList `json:"sem_recommendations"`
	SemResolutionInstruction models.StringList `json:"sem_resolution_instruction"`
}

// Patch carries a partial update; nil fields are left unchanged.
type Patch struct {
	SemHeader                *string            `json:"sem_header"`
	SemCategory              *string            `json:"sem_category"`
	SeverityScore            *models.Score      `json:"severity_score"`
	SemLongDescription       *string            `json:"sem_long_description"`
	SemRecommendations       *models.StringList `json:"sem_recommendations"`
	SemResolutionInstruction *models.StringList `json:"sem_resolution_instruction"`
}

// Document returns the raw nested document for the settings view. Sections
// is never nil.
func (s *Service) Document(ctx context.Context) (*models.IssueDocument, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Sections == nil {
		doc.Sections = []models.Section{}
	}
	return doc, nil
}

// Issues returns the flattened display list.
func (s *Service) Issues(ctx context.Context) ([]models.DisplayIssue, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return models.Flatten(doc), nil
}

// Create inserts a new issue into the first sub-section, creating default
// containers when the document has none. The header must be unique across
// the whole document, not just the insertion target.
func (s *Service) Create(ctx context.Context, payload CreatePayload) (*models.SemTemplate, error) {
	header := strings.TrimSpace(payload.SemHeader)
	if header == "" {
		return nil, &ValidationError{Message: "title required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	_, sub := models.EnsureDefaultContainers(doc)

	if findTemplate(doc, header) != nil {
		return nil, &ConflictError{Header: header}
	}

	created := models.SemTemplate{
		SemHeader:                header,
		SemCategory:              payload.SemCategory,
		SeverityScore:            payload.SeverityScore,
		SemLongDescription:       payload.SemLongDescription,
		SemRecommendations:       payload.SemRecommendations,
		SemResolutionInstruction: payload.SemResolutionInstruction,
	}
	applyDefaults(&created)

	sub.FindingTemplates = append(sub.FindingTemplates, models.FindingTemplate{SemTemplate: created})

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("Created issue", "header", created.SemHeader, "category", created.SemCategory)
	return &created, nil
}

// Update patches the first issue whose header matches id. Patching the
// header changes the record's identity for future lookups; callers must
// track the new id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*models.SemTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	target := findTemplate(doc, id)
	if target == nil {
		return nil, &NotFoundError{ID: id}
	}

	if patch.SemHeader != nil {
		target.SemHeader = *patch.SemHeader
	}
	if patch.SemCategory != nil {
		target.SemCategory = *patch.SemCategory
	}
	if patch.SeverityScore != nil {
		score := *patch.SeverityScore
		if !score.Valid {
			score = models.NewScore(0)
		}
		target.SeverityScore = score
	}
	if patch.SemLongDescription != nil {
		target.SemLongDescription = *patch.SemLongDescription
	}
	if patch.SemRecommendations != nil {
		target.SemRecommendations = *patch.SemRecommendations
	}
	if patch.SemResolutionInstruction != nil {
		target.SemResolutionInstruction = *patch.SemResolutionInstruction
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}

	updated := *target
	s.logger.Info("Updated issue", "id", id, "header", updated.SemHeader)
	return &updated, nil
}

// Delete removes the first issue whose header matches id, then prunes
// sub-sections left without templates and sections left without
// sub-sections, in that order.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}

	if !removeTemplate(doc, id) {
		return "", &NotFoundError{ID: id}
	}
	pruneEmptyContainers(doc)

	if err := s.store.Save(ctx, doc); err != nil {
		return "", err
	}

	s.logger.Info("Deleted issue", "id", id)
	return id, nil
}

// applyDefaults fills the structural defaults of a freshly created record.
func applyDefaults(st *models.SemTemplate) {
	if strings.TrimSpace(st.SemCategory) == "" {
		st.SemCategory = models.CategoryConfigurationChanges
	}
	if !st.SeverityScore.Valid {
		st.SeverityScore = models.NewScore(0)
	}
	if st.SemRecommendations.IsZero() {
		st.SemRecommendations = models.NewStringList()
	}
	if st.SemResolutionInstruction.IsZero() {
		st.SemResolutionInstruction = models.NewStringList()
	}
}

// findTemplate returns the first template with the given header, scanning in
// document order.
func findTemplate(doc *models.IssueDocument, header string) *models.SemTemplate {
	for si := range doc.Sections {
		for bi := range doc.Sections[si].SubSections {
			sub := &doc.Sections[si].SubSections[bi]
			for ti := range sub.FindingTemplates {
				if sub.FindingTemplates[ti].SemTemplate.SemHeader == header {
					return &sub.FindingTemplates[ti].SemTemplate
				}
			}
		}
	}
	return nil
}

// removeTemplate filters the matching template out of the first sub-section
// that holds it. Reports whether anything was removed.
func removeTemplate(doc *models.IssueDocument, header string) bool {
	for si := range doc.Sections {
		for bi := range doc.Sections[si].SubSections {
			sub := &doc.Sections[si].SubSections[bi]

			matched := false
			for _, ft := range sub.FindingTemplates {
				if ft.SemTemplate.SemHeader == header {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}

			kept := make([]models.FindingTemplate, 0, len(sub.FindingTemplates))
			for _, ft := range sub.FindingTemplates {
				if ft.SemTemplate.SemHeader != header {
					kept = append(kept, ft)
				}
			}
			sub.FindingTemplates = kept
			return true
		}
	}
	return false
}

// pruneEmptyContainers drops sub-sections without templates, then sections
// without sub-sections.
func pruneEmptyContainers(doc *models.IssueDocument) {
	sections := make([]models.Section, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		subs := make([]models.SubSection, 0, len(sec.SubSections))
		for _, sub := range sec.SubSections {
			if len(sub.FindingTemplates) > 0 {
				subs = append(subs, sub)
			}
		}
		sec.SubSections = subs
		if len(sec.SubSections) > 0 {
			sections = append(sections, sec)
		}
	}
	doc.Sections = sections
}
