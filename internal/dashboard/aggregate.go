package dashboard

import (
	"slices"
	"strconv"
	"time"
)

// RecentLimit is how many responses the analytics view keeps in Recent.
const RecentLimit = 5

// DateKey formats t as the calendar day used by history buckets.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// BumpHistory adds one to the bucket for date, appending {date, 1} when the
// date has no bucket yet. The slice is modified in place when possible.
func BumpHistory(history []HistoryEntry, date string) []HistoryEntry {
	for i := range history {
		if history[i].Date == date {
			history[i].Count++
			return history
		}
	}
	return append(history, HistoryEntry{Date: date, Count: 1})
}

// RecentResponses returns the n newest responses, newest first.
// Responses created at the same instant keep their insertion order.
func RecentResponses(responses []SurveyResponse, n int) []SurveyResponse {
	sorted := slices.Clone(responses)
	slices.SortStableFunc(sorted, func(a, b SurveyResponse) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return cloneResponses(sorted)
}

// TotalDownloads sums the download counters of all brochures
func TotalDownloads(brochures []Brochure) int {
	total := 0
	for _, b := range brochures {
		total += b.DownloadCount
	}
	return total
}

// Aggregate derives the analytics view from the raw collections. The history
// series are carried through as given, since they are not derivable from the
// collections themselves.
func Aggregate(
	brochures []Brochure,
	responses []SurveyResponse,
	visitors VisitorStats,
	downloadHistory, surveyHistory []HistoryEntry,
) AnalyticsData {
	byBrochure := make([]BrochureDownloads, 0, len(brochures))
	for _, b := range brochures {
		byBrochure = append(byBrochure, BrochureDownloads{
			BrochureID: b.ID,
			Title:      b.Title,
			Count:      b.DownloadCount,
		})
	}

	return AnalyticsData{
		Visitors: cloneVisitors(visitors),
		Downloads: DownloadAnalytics{
			Total:      TotalDownloads(brochures),
			ByBrochure: byBrochure,
			History:    slices.Clone(downloadHistory),
		},
		SurveyResponses: SurveyAnalytics{
			Total:   len(responses),
			Recent:  RecentResponses(responses, RecentLimit),
			History: slices.Clone(surveyHistory),
		},
	}
}

var questionChartColors = Colors{
	"rgba(54, 162, 235, 0.6)",
	"rgba(255, 99, 132, 0.6)",
	"rgba(255, 206, 86, 0.6)",
	"rgba(75, 192, 192, 0.6)",
	"rgba(153, 102, 255, 0.6)",
}

// QuestionChart builds the answer distribution chart for a question: a pie of
// option counts for multiple-choice questions, a 1-5 bar chart for ratings.
// Free-text questions have no chart.
func QuestionChart(q SurveyQuestion, responses []SurveyResponse) (ChartData, bool) {
	switch q.Kind {
	case QuestionMultipleChoice:
		counts := make([]float64, len(q.Options))
		for _, r := range responses {
			answer, ok := r.AnswerFor(q.ID)
			if !ok || answer.IsRating() {
				continue
			}
			if i := slices.Index(q.Options, answer.Text); i >= 0 {
				counts[i]++
			}
		}
		return ChartData{
			ID:          q.ID,
			Title:       q.Text,
			Description: "Survey responses distribution",
			Kind:        ChartPie,
			Labels:      slices.Clone(q.Options),
			Datasets: []Dataset{{
				Label:           "Responses",
				Data:            counts,
				BackgroundColor: slices.Clone(questionChartColors),
			}},
		}, true

	case QuestionRating:
		counts := make([]float64, 5)
		labels := make([]string, 5)
		for i := range labels {
			labels[i] = strconv.Itoa(i + 1)
		}
		for _, r := range responses {
			answer, ok := r.AnswerFor(q.ID)
			if ok && answer.Rating >= 1 && answer.Rating <= 5 {
				counts[answer.Rating-1]++
			}
		}
		return ChartData{
			ID:          q.ID,
			Title:       q.Text,
			Description: "Rating distribution",
			Kind:        ChartBar,
			Labels:      labels,
			Datasets: []Dataset{{
				Label:           "Responses",
				Data:            counts,
				BackgroundColor: Colors{"rgba(54, 162, 235, 0.6)"},
			}},
		}, true
	}
	return ChartData{}, false
}

func cloneVisitors(v VisitorStats) VisitorStats {
	v.History = slices.Clone(v.History)
	return v
}

func cloneResponses(in []SurveyResponse) []SurveyResponse {
	out := make([]SurveyResponse, len(in))
	for i, r := range in {
		out[i] = r
		out[i].Answers = slices.Clone(r.Answers)
	}
	return out
}

func cloneQuestions(in []SurveyQuestion) []SurveyQuestion {
	out := make([]SurveyQuestion, len(in))
	for i, q := range in {
		out[i] = q
		out[i].Options = slices.Clone(q.Options)
	}
	return out
}

func cloneAnalytics(a AnalyticsData) AnalyticsData {
	a.Visitors = cloneVisitors(a.Visitors)
	a.Downloads.ByBrochure = slices.Clone(a.Downloads.ByBrochure)
	a.Downloads.History = slices.Clone(a.Downloads.History)
	a.SurveyResponses.Recent = cloneResponses(a.SurveyResponses.Recent)
	a.SurveyResponses.History = slices.Clone(a.SurveyResponses.History)
	return a
}
