// Package grading turns a rubric into a grading form and criterion scores into a final grade.
package grading

import "github.com/RubachokBoss/evaluation-service/internal/models"

type ScoredCriterion struct {
	Criterion models.Criterion
	Score     float64
}

// Weight is the criterion's configured weight when it has one, otherwise 1.
func Weight(c models.Criterion) float64 {
	if c.HasWeight {
		return c.Weight
	}
	return models.DefaultCriterionWeight
}

// FinalGrade is the weighted mean of the scores. It returns 0 when the total weight is
// not positive. Scores are not clamped to the rubric scale.
func FinalGrade(scores []ScoredCriterion) float64 {
	var sum, mass float64
	for _, s := range scores {
		w := Weight(s.Criterion)
		sum += s.Score * w
		mass += w
	}

	if mass <= 0 {
		return 0
	}
	return sum / mass
}

// Average is the plain mean of the final grades, 0 for none.
func Average(grades []models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.FinalGrade
	}
	return sum / float64(len(grades))
}
