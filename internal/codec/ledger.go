package codec

import (
	"strconv"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

const (
	gradeFields = 6
	scoreFields = 6
	linkFields  = 2
)

// EncodeGrade: gradeId;projectId;evaluatorId;evaluatorName;finalGrade;rubricId
func EncodeGrade(g models.Grade) string {
	return joinRecord(
		strconv.Itoa(g.ID),
		strconv.Itoa(g.ProjectID),
		NormalizeEvaluatorID(g.EvaluatorID),
		SanitizeText(g.EvaluatorName),
		FormatAmount(g.FinalGrade),
		strconv.Itoa(g.RubricID),
	)
}

func DecodeGrade(line string) (models.Grade, error) {
	f := splitRecord(line)
	if len(f) < gradeFields {
		return models.Grade{}, ErrMalformedRecord
	}

	return models.Grade{
		ID:            parseInt(f[0]),
		ProjectID:     parseInt(f[1]),
		EvaluatorID:   NormalizeEvaluatorID(f[2]),
		EvaluatorName: f[3],
		FinalGrade:    parseFloat(f[4], 0),
		RubricID:      parseInt(f[5]),
	}, nil
}

// EncodeScore: gradeId;projectId;evaluatorId;sectionId;criterionName;score
func EncodeScore(s models.CriterionScore) string {
	return joinRecord(
		strconv.Itoa(s.GradeID),
		strconv.Itoa(s.ProjectID),
		NormalizeEvaluatorID(s.EvaluatorID),
		SanitizeText(s.SectionID),
		SanitizeText(s.CriterionName),
		FormatAmount(s.Score),
	)
}

func DecodeScore(line string) (models.CriterionScore, error) {
	f := splitRecord(line)
	if len(f) < scoreFields {
		return models.CriterionScore{}, ErrMalformedRecord
	}

	return models.CriterionScore{
		GradeID:       parseInt(f[0]),
		ProjectID:     parseInt(f[1]),
		EvaluatorID:   NormalizeEvaluatorID(f[2]),
		SectionID:     f[3],
		CriterionName: f[4],
		Score:         parseFloat(f[5], 0),
	}, nil
}

// EncodeLink: projectId;evaluatorId
func EncodeLink(l models.ProjectEvaluator) string {
	return joinRecord(
		strconv.Itoa(l.ProjectID),
		NormalizeEvaluatorID(l.EvaluatorID),
	)
}

func DecodeLink(line string) (models.ProjectEvaluator, error) {
	f := splitRecord(line)
	if len(f) < linkFields {
		return models.ProjectEvaluator{}, ErrMalformedRecord
	}

	return models.ProjectEvaluator{
		ProjectID:   parseInt(f[0]),
		EvaluatorID: NormalizeEvaluatorID(f[1]),
	}, nil
}
