package dashboard

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// HistoryDays is the length of every generated trend series.
const HistoryDays = 30

// SeedResponses is how many synthetic survey responses are generated.
const SeedResponses = 20

// Generator produces randomized demo records. Two generators built with the
// same seed and clock produce identical output.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a generator driven by seed. A nil clock means time.Now.
func NewGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		faker: gofakeit.New(seed),
		now:   now,
	}
}

func (g *Generator) intRange(lo, hi int) int {
	return g.faker.IntRange(lo, hi)
}

func (g *Generator) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = g.faker.Word()
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// history builds HistoryDays buckets ending today, oldest first.
func (g *Generator) history(lo, hi int) []HistoryEntry {
	today := g.now()
	out := make([]HistoryEntry, HistoryDays)
	for i := range out {
		day := today.AddDate(0, 0, -(HistoryDays - 1 - i))
		out[i] = HistoryEntry{
			Date:  DateKey(day),
			Count: g.intRange(lo, hi),
		}
	}
	return out
}

// VisitorStats returns randomized visitor counters with a 30-day history.
func (g *Generator) VisitorStats() VisitorStats {
	total := g.intRange(1000, 5000)
	today := g.intRange(10, 200)
	return VisitorStats{
		Total:     total,
		Today:     today,
		ActiveNow: g.intRange(1, 50),
		History:   g.history(10, 200),
	}
}

// DownloadHistory returns a 30-day brochure download trend.
func (g *Generator) DownloadHistory() []HistoryEntry {
	return g.history(1, 30)
}

// SurveyHistory returns a 30-day survey submission trend.
func (g *Generator) SurveyHistory() []HistoryEntry {
	return g.history(0, 5)
}

type brochureSeed struct {
	title, description, fileName string
	min, max                     int
}

var brochureSeeds = []brochureSeed{
	{
		title:       "Sustainable Waste Management Guide",
		description: "Learn about best practices for sustainable waste management at home and in your community.",
		fileName:    "sustainable-waste-management.pdf",
		min:         50,
		max:         500,
	},
	{
		title:       "Recycling Program Overview",
		description: "A comprehensive overview of our recycling program, including materials accepted and drop-off locations.",
		fileName:    "recycling-program.pdf",
		min:         100,
		max:         800,
	},
	{
		title:       "Community Impact Report",
		description: "Our annual report on the impact of our environmental initiatives in the community.",
		fileName:    "impact-report.pdf",
		min:         30,
		max:         300,
	},
}

// Brochures returns the fixed brochure catalogue with random download counts.
func (g *Generator) Brochures() []Brochure {
	now := g.now()
	out := make([]Brochure, 0, len(brochureSeeds))
	for _, s := range brochureSeeds {
		out = append(out, Brochure{
			ID:            g.faker.UUID(),
			Title:         s.title,
			Description:   s.description,
			FileName:      s.fileName,
			URL:           "/brochures/" + s.fileName,
			DownloadCount: g.intRange(s.min, s.max),
			CreatedAt:     g.faker.DateRange(now.AddDate(-1, 0, 0), now).UTC(),
		})
	}
	return out
}

// SurveyQuestions returns the fixed survey, one question of each kind.
func (g *Generator) SurveyQuestions() []SurveyQuestion {
	return []SurveyQuestion{
		{
			ID:   g.faker.UUID(),
			Text: "How satisfied are you with the waste collection services in your area?",
			Kind: QuestionRating,
		},
		{
			ID:   g.faker.UUID(),
			Text: "Which of the following recycling practices do you regularly follow?",
			Kind: QuestionMultipleChoice,
			Options: []string{
				"Separating recyclables from general waste",
				"Composting organic waste",
				"Reusing containers and packaging",
				"Bringing reusable bags for shopping",
				"None of the above",
			},
		},
		{
			ID:   g.faker.UUID(),
			Text: "What improvements would you suggest for our environmental programs?",
			Kind: QuestionText,
		},
	}
}

// SurveyResponses returns SeedResponses synthetic responses answering every
// question with a value that fits its kind.
func (g *Generator) SurveyResponses(questions []SurveyQuestion) []SurveyResponse {
	now := g.now()
	out := make([]SurveyResponse, 0, SeedResponses)
	for range SeedResponses {
		answers := make([]Answer, 0, len(questions))
		for _, q := range questions {
			answers = append(answers, Answer{QuestionID: q.ID, Value: g.answerFor(q)})
		}
		out = append(out, SurveyResponse{
			ID:       g.faker.UUID(),
			SurveyID: DefaultSurveyID,
			Respondent: Respondent{
				Name:  g.faker.Name(),
				Email: g.faker.Email(),
			},
			Answers:    answers,
			Subscribed: g.faker.Bool(),
			CreatedAt:  g.faker.DateRange(now.AddDate(0, 0, -HistoryDays), now).UTC(),
		})
	}
	return out
}

func (g *Generator) answerFor(q SurveyQuestion) AnswerValue {
	switch {
	case q.Kind == QuestionRating:
		return RatingAnswer(g.intRange(1, 5))
	case q.Kind == QuestionMultipleChoice && len(q.Options) > 0:
		return TextAnswer(q.Options[g.intRange(0, len(q.Options)-1)])
	default:
		return TextAnswer(g.sentence(8))
	}
}

var seriesColors = Colors{
	"rgba(255, 99, 132, 0.6)",
	"rgba(54, 162, 235, 0.6)",
	"rgba(255, 206, 86, 0.6)",
	"rgba(75, 192, 192, 0.6)",
	"rgba(153, 102, 255, 0.6)",
}

// TimeLabels returns count day labels ending today, oldest first.
func (g *Generator) TimeLabels(count int) []string {
	now := g.now()
	labels := make([]string, 0, count)
	for i := count - 1; i >= 0; i-- {
		labels = append(labels, now.AddDate(0, 0, -i).Format("Jan 2, 2006"))
	}
	return labels
}

// Charts returns the three demo charts shown on the public dashboard.
func (g *Generator) Charts() []ChartData {
	return []ChartData{
		{
			ID:          g.faker.UUID(),
			Title:       "Waste Collection by Type",
			Description: "Weekly breakdown of waste collection by material type",
			Kind:        ChartBar,
			Labels:      []string{"Paper", "Plastic", "Glass", "Metal", "Organic"},
			Datasets: []Dataset{{
				Label:           "Tons Collected",
				Data:            []float64{65, 59, 80, 81, 56},
				BackgroundColor: append(Colors(nil), seriesColors...),
			}},
		},
		{
			ID:          g.faker.UUID(),
			Title:       "Community Participation",
			Description: "Monthly trends in community engagement",
			Kind:        ChartLine,
			Labels:      g.TimeLabels(7),
			Datasets: []Dataset{{
				Label:           "Participants",
				Data:            []float64{28, 48, 40, 19, 86, 27, 90},
				BackgroundColor: Colors{"rgba(75, 192, 192, 0.2)"},
				BorderColor:     Colors{"rgba(75, 192, 192, 1)"},
				BorderWidth:     2,
			}},
		},
		{
			ID:          g.faker.UUID(),
			Title:       "Resource Allocation",
			Description: "Distribution of project resources across initiatives",
			Kind:        ChartPie,
			Labels:      []string{"Education", "Collection", "Processing", "Distribution", "Research"},
			Datasets: []Dataset{{
				Label:           "Allocation %",
				Data:            []float64{25, 30, 20, 15, 10},
				BackgroundColor: append(Colors(nil), seriesColors...),
			}},
		},
	}
}
