package models

const DefaultCriterionWeight = 1.0

type Criterion struct {
	Name           string  `json:"name" validate:"required,max=255"`
	AutoCalculated bool    `json:"auto_calculated"`
	HasWeight      bool    `json:"has_weight"`
	Weight         float64 `json:"weight" validate:"gte=0"`
}

type Section struct {
	ID       string      `json:"id" validate:"required,max=16"`
	Title    string      `json:"title" validate:"max=255"`
	Criteria []Criterion `json:"criteria" validate:"dive"`
}

// Rubric is a grading template ("ficha"). Section and criterion order is significant.
type Rubric struct {
	ID                  int       `json:"id" db:"id"`
	Type                string    `json:"type" db:"type"`
	ResolutionNumber    string    `json:"resolution_number" db:"resolution_number"`
	ResolutionYear      string    `json:"resolution_year" db:"resolution_year"`
	Course              string    `json:"course" db:"course"`
	Category            string    `json:"category" db:"category"`
	MinScore            float64   `json:"min_score" db:"min_score"`
	MaxScore            float64   `json:"max_score" db:"max_score"`
	IncludeDate         bool      `json:"include_date" db:"include_date"`
	IncludeEvaluator    bool      `json:"include_evaluator" db:"include_evaluator"`
	IncludeOrientor     bool      `json:"include_orientor" db:"include_orientor"`
	IncludeObservations bool      `json:"include_observations" db:"include_observations"`
	ApprovalText        string    `json:"approval_text" db:"approval_text"`
	Sections            []Section `json:"sections"`
}

func (r *Rubric) CriteriaCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Criteria)
	}
	return n
}
