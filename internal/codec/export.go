package codec

import (
	"strconv"
	"strings"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

const RubricListHeader = "ID;Tipo;ResolucaoNum;ResolucaoAno;Curso;NotaMin;NotaMax;NumSecoes"

// EncodeRubricList renders the rubric overview used for spreadsheet export: a header
// line, then one line per rubric with its section count.
func EncodeRubricList(rubrics []models.Rubric) string {
	var b strings.Builder
	b.WriteString(RubricListHeader)
	b.WriteByte('\n')

	for _, r := range rubrics {
		b.WriteString(joinRecord(
			strconv.Itoa(r.ID),
			SanitizeText(r.Type),
			SanitizeText(r.ResolutionNumber),
			SanitizeText(r.ResolutionYear),
			SanitizeText(r.Course),
			formatFloat(r.MinScore),
			formatFloat(r.MaxScore),
			strconv.Itoa(len(r.Sections)),
		))
		b.WriteByte('\n')
	}
	return b.String()
}
