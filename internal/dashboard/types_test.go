package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAnswerValueJSON(t *testing.T) {
	out, err := json.Marshal([]Answer{
		{QuestionID: "q1", Value: RatingAnswer(4)},
		{QuestionID: "q2", Value: TextAnswer("Composting organic waste")},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"question_id":"q1","answer":4},
		{"question_id":"q2","answer":"Composting organic waste"}
	]`, string(out))

	var answers []Answer
	require.NoError(t, json.Unmarshal(out, &answers))
	assert.Equal(t, 4, answers[0].Value.Rating)
	assert.True(t, answers[0].Value.IsRating())
	assert.Equal(t, "Composting organic waste", answers[1].Value.Text)

	var bad Answer
	assert.Error(t, json.Unmarshal([]byte(`{"question_id":"q","answer":[1]}`), &bad))
}

func TestAnswerValueYAML(t *testing.T) {
	out, err := yaml.Marshal(Answer{QuestionID: "q1", Value: RatingAnswer(3)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "answer: 3")
}

func TestColorsJSON(t *testing.T) {
	single, err := json.Marshal(Colors{"red"})
	require.NoError(t, err)
	assert.Equal(t, `"red"`, string(single))

	many, err := json.Marshal(Colors{"red", "blue"})
	require.NoError(t, err)
	assert.Equal(t, `["red","blue"]`, string(many))

	var c Colors
	require.NoError(t, json.Unmarshal([]byte(`"green"`), &c))
	assert.Equal(t, Colors{"green"}, c)
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &c))
	assert.Equal(t, Colors{"a", "b"}, c)
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestChartValidate(t *testing.T) {
	valid := ChartData{
		Title:    "Chart",
		Kind:     ChartLine,
		Labels:   []string{"a", "b"},
		Datasets: []Dataset{{Data: []float64{1, 2}}},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ChartData)
	}{
		{"missing title", func(c *ChartData) { c.Title = " " }},
		{"unknown kind", func(c *ChartData) { c.Kind = "radar" }},
		{"short dataset", func(c *ChartData) { c.Datasets[0].Data = []float64{1} }},
		{"extra label", func(c *ChartData) { c.Labels = append(c.Labels, "c") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid.clone()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidChart)
		})
	}
}

func TestChartPatchApplyLeavesOriginal(t *testing.T) {
	orig := ChartData{ID: "c", Title: "A", Kind: ChartBar, Labels: []string{"x"}}
	kind := ChartPie
	desc := "d"

	out := ChartPatch{Kind: &kind, Description: &desc, Labels: []string{"y"}}.Apply(orig)

	assert.Equal(t, ChartPie, out.Kind)
	assert.Equal(t, "d", out.Description)
	assert.Equal(t, []string{"y"}, out.Labels)
	assert.Equal(t, "A", out.Title)
	assert.Equal(t, []string{"x"}, orig.Labels)
}
