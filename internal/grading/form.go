package grading

import (
	"errors"
	"fmt"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

var (
	ErrUnknownCriterion = errors.New("criterion is not part of the grading form")
	ErrMissingScore     = errors.New("score missing for criterion")
	ErrDuplicateScore   = errors.New("criterion scored more than once")
	ErrScoreOutOfRange  = errors.New("score outside the rubric scale")

	ErrDuplicateSection   = errors.New("section id used more than once in the rubric")
	ErrDuplicateCriterion = errors.New("criterion name used more than once in a section")
)

type Field struct {
	SectionID    string           `json:"section_id"`
	SectionTitle string           `json:"section_title"`
	Criterion    models.Criterion `json:"criterion"`
}

// Form lists the inputs an evaluator fills in for a rubric.
type Form struct {
	RubricID int     `json:"rubric_id"`
	MinScore float64 `json:"min_score"`
	MaxScore float64 `json:"max_score"`
	Fields   []Field `json:"fields"`
}

type fieldKey struct {
	section   string
	criterion string
}

// BuildForm keeps only the criteria an evaluator scores by hand. Auto-calculated
// criteria stay in the rubric but never become inputs.
func BuildForm(r models.Rubric) Form {
	form := Form{
		RubricID: r.ID,
		MinScore: r.MinScore,
		MaxScore: r.MaxScore,
		Fields:   make([]Field, 0, r.CriteriaCount()),
	}

	for _, s := range r.Sections {
		for _, c := range s.Criteria {
			if c.AutoCalculated {
				continue
			}
			form.Fields = append(form.Fields, Field{
				SectionID:    s.ID,
				SectionTitle: s.Title,
				Criterion:    c,
			})
		}
	}

	return form
}

// CheckKeys rejects rubrics whose sections share an id or whose criteria share a name
// within a section. Detail rows are keyed by (section id, criterion name).
func CheckKeys(r models.Rubric) error {
	sections := make(map[string]struct{}, len(r.Sections))
	for _, sec := range r.Sections {
		if _, ok := sections[sec.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSection, sec.ID)
		}
		sections[sec.ID] = struct{}{}

		names := make(map[string]struct{}, len(sec.Criteria))
		for _, c := range sec.Criteria {
			if _, ok := names[c.Name]; ok {
				return fmt.Errorf("%w: %s/%s", ErrDuplicateCriterion, sec.ID, c.Name)
			}
			names[c.Name] = struct{}{}
		}
	}
	return nil
}

// Score pairs submitted entries with the form fields, in form order. Every field must be
// scored exactly once, within [MinScore, MaxScore].
func (f Form) Score(entries []models.ScoreEntry) ([]ScoredCriterion, []models.CriterionScore, error) {
	fields := make(map[fieldKey]struct{}, len(f.Fields))
	for _, field := range f.Fields {
		key := fieldKey{section: field.SectionID, criterion: field.Criterion.Name}
		if _, ok := fields[key]; ok {
			// stored before keys were checked; one entry would land on two fields
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrDuplicateCriterion, field.SectionID, field.Criterion.Name)
		}
		fields[key] = struct{}{}
	}

	submitted := make(map[fieldKey]float64, len(entries))
	for _, e := range entries {
		key := fieldKey{section: e.SectionID, criterion: e.CriterionName}
		if _, ok := fields[key]; !ok {
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrUnknownCriterion, e.SectionID, e.CriterionName)
		}
		if _, ok := submitted[key]; ok {
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrDuplicateScore, e.SectionID, e.CriterionName)
		}
		submitted[key] = e.Score
	}

	scored := make([]ScoredCriterion, 0, len(f.Fields))
	rows := make([]models.CriterionScore, 0, len(f.Fields))

	for _, field := range f.Fields {
		key := fieldKey{section: field.SectionID, criterion: field.Criterion.Name}
		score, ok := submitted[key]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrMissingScore, field.SectionID, field.Criterion.Name)
		}
		if score < f.MinScore || score > f.MaxScore {
			return nil, nil, fmt.Errorf("%w: %s/%s = %v not in [%v, %v]",
				ErrScoreOutOfRange, field.SectionID, field.Criterion.Name, score, f.MinScore, f.MaxScore)
		}

		scored = append(scored, ScoredCriterion{Criterion: field.Criterion, Score: score})
		rows = append(rows, models.CriterionScore{
			SectionID:     field.SectionID,
			CriterionName: field.Criterion.Name,
			Score:         score,
		})
	}

	return scored, rows, nil
}
