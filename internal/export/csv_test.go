package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/wastedata"
)

type row map[string]string

func (r row) Field(name string) string { return r[name] }

func TestCSV(t *testing.T) {
	tests := []struct {
		name    string
		records []row
		fields  []string
		want    string
	}{
		{
			name:    "replaces commas in values",
			records: []row{{"a": "x,y", "b": "z"}},
			fields:  []string{"a", "b"},
			want:    "a,b\nx y,z",
		},
		{
			name:    "header only",
			records: nil,
			fields:  []string{"a", "b"},
			want:    "a,b",
		},
		{
			name:    "missing field renders empty",
			records: []row{{"a": "1"}, {"b": "2"}},
			fields:  []string{"a", "b"},
			want:    "a,b\n1,\n,2",
		},
		{
			name:    "field order follows fields",
			records: []row{{"a": "1", "b": "2"}},
			fields:  []string{"b", "a"},
			want:    "b,a\n2,1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CSV(tt.records, tt.fields))
		})
	}
}

func TestWasteCSV(t *testing.T) {
	out := WasteCSV(wastedata.DemoEntries()[:1])
	assert.Equal(t,
		"id,date,pet_amount,cardboard_amount,cans_amount,glass_amount,other_amount,participation_rate,misclassification_rate,campaign_reach,costs\n"+
			"1,2025-05-01,65,45,28,32,15,68,12,320,285",
		out)
}

func TestSurveyCSV(t *testing.T) {
	questions := []dashboard.SurveyQuestion{
		{ID: "q1", Text: "Rate us, please", Kind: dashboard.QuestionRating},
		{ID: "q2", Text: "Ideas", Kind: dashboard.QuestionText},
	}
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	responses := []dashboard.SurveyResponse{
		{
			Respondent: dashboard.Respondent{Name: "Old", Email: "old@x.io"},
			Answers:    []dashboard.Answer{{QuestionID: "q1", Value: dashboard.RatingAnswer(3)}},
			CreatedAt:  base,
		},
		{
			Respondent: dashboard.Respondent{Name: "New", Email: "new@x.io"},
			Answers: []dashboard.Answer{
				{QuestionID: "q1", Value: dashboard.RatingAnswer(5)},
				{QuestionID: "q2", Value: dashboard.TextAnswer("more bins, fewer bags")},
			},
			CreatedAt: base.AddDate(0, 0, 1),
		},
	}

	out := SurveyCSV(questions, responses)

	assert.Equal(t,
		"Name,Email,Date,Rate us  please,Ideas\n"+
			"New,new@x.io,2024-05-02,5,more bins  fewer bags\n"+
			"Old,old@x.io,2024-05-01,3,",
		out)
}
