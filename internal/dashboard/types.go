package dashboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DefaultSurveyID is the survey every response belongs to.
const DefaultSurveyID = "default-survey"

// HistoryEntry is one per-day bucket of a 30-day trend.
type HistoryEntry struct {
	Date  string `json:"date" yaml:"date"` // YYYY-MM-DD
	Count int    `json:"count" yaml:"count"`
}

// VisitorStats holds the site visitor counters
type VisitorStats struct {
	Total     int            `json:"total" yaml:"total"`
	Today     int            `json:"today" yaml:"today"`
	ActiveNow int            `json:"active_now" yaml:"active_now"`
	History   []HistoryEntry `json:"history" yaml:"history"`
}

// Brochure is a downloadable PDF with a download counter
type Brochure struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description" yaml:"description"`
	FileName      string    `json:"file_name" yaml:"file_name"`
	URL           string    `json:"url" yaml:"url"`
	DownloadCount int       `json:"download_count" yaml:"download_count"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// QuestionKind is the input type of a survey question
type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple-choice"
	QuestionText           QuestionKind = "text"
	QuestionRating         QuestionKind = "rating"
)

// SurveyQuestion is one prompt of the survey
type SurveyQuestion struct {
	ID      string       `json:"id" yaml:"id"`
	Text    string       `json:"text" yaml:"text"`
	Kind    QuestionKind `json:"type" yaml:"type"`
	Options []string     `json:"options,omitempty" yaml:"options,omitempty"`
}

// Respondent identifies who answered a survey
type Respondent struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// AnswerValue is either free text / a chosen option label, or a 1-5 rating.
// It marshals to a JSON string or a JSON number respectively.
type AnswerValue struct {
	Text   string
	Rating int
}

// TextAnswer builds a text or option answer
func TextAnswer(s string) AnswerValue { return AnswerValue{Text: s} }

// RatingAnswer builds a rating answer
func RatingAnswer(n int) AnswerValue { return AnswerValue{Rating: n} }

// IsRating reports whether the value is numeric
func (v AnswerValue) IsRating() bool { return v.Rating != 0 }

func (v AnswerValue) String() string {
	if v.IsRating() {
		return strconv.Itoa(v.Rating)
	}
	return v.Text
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.IsRating() {
		return json.Marshal(v.Rating)
	}
	return json.Marshal(v.Text)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = AnswerValue{Rating: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("answer must be a string or an integer: %w", err)
	}
	*v = AnswerValue{Text: s}
	return nil
}

func (v AnswerValue) MarshalYAML() (interface{}, error) {
	if v.IsRating() {
		return v.Rating, nil
	}
	return v.Text, nil
}

// Answer pairs a question with the respondent's answer
type Answer struct {
	QuestionID string      `json:"question_id" yaml:"question_id"`
	Value      AnswerValue `json:"answer" yaml:"answer"`
}

// SurveyResponse is one respondent's full set of answers
type SurveyResponse struct {
	ID         string     `json:"id" yaml:"id"`
	SurveyID   string     `json:"survey_id" yaml:"survey_id"`
	Respondent Respondent `json:"respondent" yaml:"respondent"`
	Answers    []Answer   `json:"answers" yaml:"answers"`
	Subscribed bool       `json:"is_subscribed" yaml:"is_subscribed"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// AnswerFor returns the answer given to questionID, if any.
func (r SurveyResponse) AnswerFor(questionID string) (AnswerValue, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a.Value, true
		}
	}
	return AnswerValue{}, false
}

// SurveySubmission is the caller-supplied part of a SurveyResponse; the store
// assigns identity and timestamp.
type SurveySubmission struct {
	SurveyID   string     `json:"survey_id"`
	Respondent Respondent `json:"respondent"`
	Answers    []Answer   `json:"answers"`
	Subscribed bool       `json:"is_subscribed"`
}

// ChartKind is the rendering type of a chart
type ChartKind string

const (
	ChartBar      ChartKind = "bar"
	ChartLine     ChartKind = "line"
	ChartPie      ChartKind = "pie"
	ChartDoughnut ChartKind = "doughnut"
)

// Valid reports whether k is one of the supported chart kinds
func (k ChartKind) Valid() bool {
	switch k {
	case ChartBar, ChartLine, ChartPie, ChartDoughnut:
		return true
	}
	return false
}

// Colors is a single colour or one colour per data point.
// A single colour marshals as a JSON string.
type Colors []string

func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

func (c *Colors) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = Colors{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("colors must be a string or an array of strings: %w", err)
	}
	*c = many
	return nil
}

// Dataset is one series of a chart, positionally aligned with the chart labels
type Dataset struct {
	Label           string    `json:"label" yaml:"label"`
	Data            []float64 `json:"data" yaml:"data"`
	BackgroundColor Colors    `json:"background_color,omitempty" yaml:"background_color,omitempty"`
	BorderColor     Colors    `json:"border_color,omitempty" yaml:"border_color,omitempty"`
	BorderWidth     int       `json:"border_width,omitempty" yaml:"border_width,omitempty"`
}

// ChartData is a chart definition consumed by the dashboard UI
type ChartData struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Kind        ChartKind `json:"type" yaml:"type"`
	Labels      []string  `json:"labels" yaml:"labels"`
	Datasets    []Dataset `json:"datasets" yaml:"datasets"`
}

// ChartPatch carries the fields of a partial chart update. Nil fields are left untouched.
type ChartPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Kind        *ChartKind `json:"type,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	Datasets    []Dataset  `json:"datasets,omitempty"`
}

// BrochureDownloads is the per-brochure projection in the analytics view
type BrochureDownloads struct {
	BrochureID string `json:"brochure_id" yaml:"brochure_id"`
	Title      string `json:"title" yaml:"title"`
	Count      int    `json:"count" yaml:"count"`
}

// DownloadAnalytics aggregates brochure downloads
type DownloadAnalytics struct {
	Total      int                 `json:"total" yaml:"total"`
	ByBrochure []BrochureDownloads `json:"by_brochure" yaml:"by_brochure"`
	History    []HistoryEntry      `json:"history" yaml:"history"`
}

// SurveyAnalytics aggregates survey submissions
type SurveyAnalytics struct {
	Total   int              `json:"total" yaml:"total"`
	Recent  []SurveyResponse `json:"recent" yaml:"recent"`
	History []HistoryEntry   `json:"history" yaml:"history"`
}

// AnalyticsData is derived from the raw collections and never edited directly
type AnalyticsData struct {
	Visitors        VisitorStats      `json:"visitors" yaml:"visitors"`
	Downloads       DownloadAnalytics `json:"downloads" yaml:"downloads"`
	SurveyResponses SurveyAnalytics   `json:"survey_responses" yaml:"survey_responses"`
}

// User is the signed-in admin
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}
