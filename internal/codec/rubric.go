package codec

import (
	"strconv"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

const (
	rubricHeaderFields = 14
	sectionFields      = 3
	criterionFields    = 4
)

// EncodeRubric flattens a rubric into one store line:
//
//	id;type;resNumber;resYear;course;category;min;max;date;evaluator;orientor;obs;approval;nSections
//	  then per section:   id;title;nCriteria
//	  then per criterion: name;auto;hasWeight;weight
func EncodeRubric(r models.Rubric) string {
	fields := make([]string, 0, rubricHeaderFields+len(r.Sections)*sectionFields+r.CriteriaCount()*criterionFields)
	fields = append(fields,
		strconv.Itoa(r.ID),
		SanitizeText(r.Type),
		SanitizeText(r.ResolutionNumber),
		SanitizeText(r.ResolutionYear),
		SanitizeText(r.Course),
		SanitizeText(r.Category),
		formatFloat(r.MinScore),
		formatFloat(r.MaxScore),
		formatBool(r.IncludeDate),
		formatBool(r.IncludeEvaluator),
		formatBool(r.IncludeOrientor),
		formatBool(r.IncludeObservations),
		SanitizeText(r.ApprovalText),
		strconv.Itoa(len(r.Sections)),
	)

	for _, s := range r.Sections {
		fields = append(fields,
			SanitizeText(s.ID),
			SanitizeText(s.Title),
			strconv.Itoa(len(s.Criteria)),
		)
		for _, c := range s.Criteria {
			fields = append(fields,
				SanitizeText(c.Name),
				formatBool(c.AutoCalculated),
				formatBool(c.HasWeight),
				formatFloat(c.Weight),
			)
		}
	}

	return joinRecord(fields...)
}

// DecodeRubric parses a store line. Lines shorter than the fixed header return
// ErrMalformedRecord. A section or criterion list that declares more entries than the
// line still holds is cut short and the partial rubric is returned.
func DecodeRubric(line string) (models.Rubric, error) {
	f := splitRecord(line)
	if len(f) < rubricHeaderFields {
		return models.Rubric{}, ErrMalformedRecord
	}

	r := models.Rubric{
		ID:                  parseInt(f[0]),
		Type:                f[1],
		ResolutionNumber:    f[2],
		ResolutionYear:      f[3],
		Course:              f[4],
		Category:            f[5],
		MinScore:            parseFloat(f[6], 0),
		MaxScore:            parseFloat(f[7], 0),
		IncludeDate:         parseBool(f[8]),
		IncludeEvaluator:    parseBool(f[9]),
		IncludeOrientor:     parseBool(f[10]),
		IncludeObservations: parseBool(f[11]),
		ApprovalText:        f[12],
	}

	sectionCount := parseInt(f[13])
	pos := rubricHeaderFields

	for i := 0; i < sectionCount; i++ {
		if len(f)-pos < sectionFields {
			break
		}
		s := models.Section{
			ID:    f[pos],
			Title: f[pos+1],
		}
		criterionCount := parseInt(f[pos+2])
		pos += sectionFields

		for j := 0; j < criterionCount; j++ {
			if len(f)-pos < criterionFields {
				break
			}
			s.Criteria = append(s.Criteria, models.Criterion{
				Name:           f[pos],
				AutoCalculated: parseBool(f[pos+1]),
				HasWeight:      parseBool(f[pos+2]),
				Weight:         parseFloat(f[pos+3], models.DefaultCriterionWeight),
			})
			pos += criterionFields
		}

		r.Sections = append(r.Sections, s)
	}

	return r, nil
}
