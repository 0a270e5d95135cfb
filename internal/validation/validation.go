// Package validation checks request payloads before they reach the store or
// a repository. Messages are keyed by the JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/wastedata"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Errors maps field names to human readable messages.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e[k])
	}
	return strings.Join(parts, "; ")
}

// Fields extracts the field map from err, if it is a validation failure.
func Fields(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Struct validates v against its `validate` tags.
func Struct(v any) error {
	return collect(validate.Struct(v)).orNil()
}

func collect(err error) Errors {
	out := Errors{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, exists := out[name]; !exists {
			out[name] = message(name, fe)
		}
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s exceeds maximum length of %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

type respondentInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
}

// Survey checks the respondent and that every answer fits its question:
// ratings 1 to 5, choices from the option list, non-empty text.
func Survey(sub dashboard.SurveySubmission, questions []dashboard.SurveyQuestion) error {
	errs := collect(validate.Struct(respondentInput{
		Name:  strings.TrimSpace(sub.Respondent.Name),
		Email: strings.TrimSpace(sub.Respondent.Email),
	}))
	errs = prefixed(errs, "respondent.")

	byID := make(map[string]dashboard.SurveyQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	if len(sub.Answers) == 0 {
		errs["answers"] = "answers is required"
	}
	seen := map[string]bool{}
	for _, a := range sub.Answers {
		key := "answers." + a.QuestionID
		q, ok := byID[a.QuestionID]
		if !ok {
			errs[key] = "unknown question"
			continue
		}
		if seen[a.QuestionID] {
			errs[key] = "question answered more than once"
			continue
		}
		seen[a.QuestionID] = true
		if msg := checkAnswer(q, a.Value); msg != "" {
			errs[key] = msg
		}
	}
	return errs.orNil()
}

func checkAnswer(q dashboard.SurveyQuestion, v dashboard.AnswerValue) string {
	switch q.Kind {
	case dashboard.QuestionRating:
		if v.Rating < 1 || v.Rating > 5 {
			return "rating must be between 1 and 5"
		}
	case dashboard.QuestionMultipleChoice:
		if v.IsRating() || !slices.Contains(q.Options, v.Text) {
			return "answer must be one of the listed options"
		}
	case dashboard.QuestionText:
		if v.IsRating() || strings.TrimSpace(v.Text) == "" {
			return "answer must be non-empty text"
		}
		if len(v.Text) > 2000 {
			return "answer exceeds maximum length of 2000"
		}
	}
	return ""
}

func prefixed(errs Errors, prefix string) Errors {
	out := make(Errors, len(errs))
	for k, v := range errs {
		out[prefix+k] = strings.Replace(v, k, prefix+k, 1)
	}
	return out
}

// WasteEntry checks amounts, rates and the entry date.
func WasteEntry(e wastedata.WasteEntry) error {
	return Struct(e)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login requires both credentials.
func Login(email, password string) error {
	return Struct(loginInput{Email: email, Password: password})
}

type chartInput struct {
	Title  string   `json:"title" validate:"required,max=200"`
	Kind   string   `json:"type" validate:"required,oneof=bar line pie doughnut"`
	Labels []string `json:"labels" validate:"required,min=1"`
}

// Chart checks the chart fields and that every dataset has one value per label.
func Chart(c dashboard.ChartData) error {
	errs := collect(validate.Struct(chartInput{
		Title:  c.Title,
		Kind:   string(c.Kind),
		Labels: c.Labels,
	}))
	if len(errs) == 0 {
		if err := c.Validate(); err != nil {
			errs["datasets"] = err.Error()
		}
	}
	return errs.orNil()
}
