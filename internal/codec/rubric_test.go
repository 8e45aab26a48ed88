package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

func sampleRubric() models.Rubric {
	return models.Rubric{
		ID:                  7,
		Type:                "TCC",
		ResolutionNumber:    "12",
		ResolutionYear:      "2023",
		Course:              "Engenharia de Software",
		Category:            "Graduação",
		MinScore:            0,
		MaxScore:            10,
		IncludeDate:         true,
		IncludeEvaluator:    true,
		IncludeOrientor:     false,
		IncludeObservations: true,
		ApprovalText:        "Aprovado pelo colegiado",
		Sections: []models.Section{
			{
				ID:    "A",
				Title: "Trabalho escrito",
				Criteria: []models.Criterion{
					{Name: "Estrutura", HasWeight: true, Weight: 2},
					{Name: "Redação", Weight: 1},
				},
			},
			{
				ID:    "B",
				Title: "Apresentação",
				Criteria: []models.Criterion{
					{Name: "Domínio do tema", HasWeight: true, Weight: 1.5},
					{Name: "Média final", AutoCalculated: true, Weight: 1},
				},
			},
		},
	}
}

func TestRubric_RoundTrip(t *testing.T) {
	want := sampleRubric()

	got, err := DecodeRubric(EncodeRubric(want))
	if err != nil {
		t.Fatalf("DecodeRubric: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestEncodeRubric_FieldOrder(t *testing.T) {
	r := models.Rubric{
		ID:           3,
		Type:         "Estágio",
		MinScore:     0,
		MaxScore:     100,
		IncludeDate:  true,
		ApprovalText: "ok",
		Sections: []models.Section{
			{ID: "A", Title: "Geral", Criteria: []models.Criterion{{Name: "Pontualidade", HasWeight: true, Weight: 2.5}}},
		},
	}

	want := "3;Estágio;;;;;0;100;1;0;0;0;ok;1;A;Geral;1;Pontualidade;0;1;2.5"
	if got := EncodeRubric(r); got != want {
		t.Fatalf("EncodeRubric\nwant: %s\ngot:  %s", want, got)
	}
}

func TestEncodeRubric_SanitizesFreeText(t *testing.T) {
	r := sampleRubric()
	r.ApprovalText = "Aprovado; com ressalvas\nver ata"
	r.Sections[0].Title = "Parte;1"

	line := EncodeRubric(r)
	if strings.Contains(line, "\n") {
		t.Fatalf("encoded line contains a line break: %q", line)
	}

	got, err := DecodeRubric(line)
	if err != nil {
		t.Fatalf("DecodeRubric: %v", err)
	}
	if got.ApprovalText != "Aprovado, com ressalvas ver ata" {
		t.Errorf("unexpected approval text %q", got.ApprovalText)
	}
	if got.Sections[0].Title != "Parte,1" {
		t.Errorf("unexpected section title %q", got.Sections[0].Title)
	}
	if len(got.Sections) != 2 || len(got.Sections[1].Criteria) != 2 {
		t.Fatalf("positional decoding misaligned: %+v", got.Sections)
	}
}

func TestDecodeRubric_TooFewFields(t *testing.T) {
	_, err := DecodeRubric("1;TCC;12;2023;Curso")
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}

	_, err = DecodeRubric("")
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord for empty line, got %v", err)
	}
}

func TestDecodeRubric_TruncatedCollections(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		wantSections  int
		wantCriteria  []int
		wantLastTitle string
	}{
		{
			name:         "header only but sections declared",
			line:         "1;TCC;;;;;0;10;0;0;0;0;;3",
			wantSections: 0,
		},
		{
			name:          "second section header cut",
			line:          "1;TCC;;;;;0;10;0;0;0;0;;2;A;Escrita;1;Clareza;0;0;1;B",
			wantSections:  1,
			wantCriteria:  []int{1},
			wantLastTitle: "Escrita",
		},
		{
			name:          "criteria list shorter than declared",
			line:          "1;TCC;;;;;0;10;0;0;0;0;;1;A;Escrita;3;Clareza;0;0;1;Coesão;0",
			wantSections:  1,
			wantCriteria:  []int{1},
			wantLastTitle: "Escrita",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeRubric(tt.line)
			if err != nil {
				t.Fatalf("DecodeRubric: %v", err)
			}
			if len(r.Sections) != tt.wantSections {
				t.Fatalf("want %d sections, got %d", tt.wantSections, len(r.Sections))
			}
			for i, n := range tt.wantCriteria {
				if len(r.Sections[i].Criteria) != n {
					t.Errorf("section %d: want %d criteria, got %d", i, n, len(r.Sections[i].Criteria))
				}
			}
			if tt.wantLastTitle != "" && r.Sections[len(r.Sections)-1].Title != tt.wantLastTitle {
				t.Errorf("unexpected last section %+v", r.Sections[len(r.Sections)-1])
			}
		})
	}
}

func TestDecodeRubric_InvalidNumbersFallBack(t *testing.T) {
	r, err := DecodeRubric("abc;TCC;;;;;x;y;0;0;0;0;;1;A;Escrita;1;Clareza;0;1;peso")
	if err != nil {
		t.Fatalf("DecodeRubric: %v", err)
	}
	if r.ID != 0 || r.MinScore != 0 || r.MaxScore != 0 {
		t.Errorf("expected zero fallbacks, got id=%d min=%v max=%v", r.ID, r.MinScore, r.MaxScore)
	}
	if w := r.Sections[0].Criteria[0].Weight; w != models.DefaultCriterionWeight {
		t.Errorf("expected default weight, got %v", w)
	}
}
