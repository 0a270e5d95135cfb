// Package export renders dashboard data as comma-separated text.
//
// The format is deliberately simple: values are never quoted, and any comma
// inside a value is replaced by a space so every row has exactly one cell per
// field.
package export

import (
	"strings"
	"time"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/wastedata"
)

// Record is a row that can report a value per named field.
type Record interface {
	Field(name string) string
}

// CSV renders records with fields as the header line. Rows are joined with
// "\n" and there is no trailing newline.
func CSV[R Record](records []R, fields []string) string {
	return render(fields, records, fields)
}

func render[R Record](header []string, records []R, fields []string) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(header, ","))

	cells := make([]string, len(fields))
	for _, r := range records {
		for i, f := range fields {
			cells[i] = clean(r.Field(f))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func clean(v string) string {
	return strings.ReplaceAll(v, ",", " ")
}

// WasteCSV renders waste entries in the admin grid column order.
func WasteCSV(entries []wastedata.WasteEntry) string {
	return CSV(entries, wastedata.Columns)
}

// surveyRow adapts a response to Record, keyed by the fixed columns and by
// question id.
type surveyRow struct {
	resp dashboard.SurveyResponse
}

func (r surveyRow) Field(name string) string {
	switch name {
	case "name":
		return r.resp.Respondent.Name
	case "email":
		return r.resp.Respondent.Email
	case "date":
		return r.resp.CreatedAt.UTC().Format(time.DateOnly)
	}
	if v, ok := r.resp.AnswerFor(name); ok {
		return v.String()
	}
	return ""
}

// SurveyCSV renders one row per response, newest first, with a column per
// question after Name, Email and Date. Question texts form the header.
func SurveyCSV(questions []dashboard.SurveyQuestion, responses []dashboard.SurveyResponse) string {
	fields := []string{"name", "email", "date"}
	header := []string{"Name", "Email", "Date"}
	for _, q := range questions {
		fields = append(fields, q.ID)
		header = append(header, clean(q.Text))
	}

	sorted := dashboard.RecentResponses(responses, len(responses))
	rows := make([]surveyRow, len(sorted))
	for i, r := range sorted {
		rows[i] = surveyRow{resp: r}
	}

	return render(header, rows, fields)
}
