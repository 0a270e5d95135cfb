package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/middleware"
	"github.com/seuros/ecodash/internal/realtime"
	"github.com/seuros/ecodash/internal/wastedata"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "password"
)

var testNow = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(email, password string) (dashboard.User, error) {
	if email != adminEmail || password != adminPassword {
		return dashboard.User{}, dashboard.ErrInvalidCredentials
	}
	return dashboard.User{ID: "admin-1", Name: "Admin User", Email: email, Role: "admin"}, nil
}

func newTestAPI(t *testing.T) (*API, *fiber.App) {
	t.Helper()
	store := dashboard.NewStore(
		dashboard.WithSeed(42),
		dashboard.WithClock(func() time.Time { return testNow }),
		dashboard.WithAuthenticator(stubAuthenticator{}),
	)
	api := &API{
		Store:    store,
		Sessions: middleware.NewSessions(time.Hour),
		Waste:    wastedata.NewMemoryRepository(wastedata.DemoEntries()...),
		Version:  "test",
	}
	app := fiber.New()
	api.Register(app)
	return api, app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/auth/login",
		LoginRequest{Email: adminEmail, Password: adminPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[LoginResponse](t, resp)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealthAndVersion(t *testing.T) {
	_, app := newTestAPI(t)

	resp := doRequest(t, app, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decode[map[string]string](t, resp)["status"])

	resp = doRequest(t, app, http.MethodGet, "/api/version", nil, "")
	assert.Equal(t, "test", decode[map[string]string](t, resp)["version"])
}

func TestUpReportsDatabaseFailure(t *testing.T) {
	api, app := newTestAPI(t)

	resp := doRequest(t, app, http.MethodGet, "/up", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	api.Ping = func(context.Context) error { return assert.AnError }
	resp = doRequest(t, app, http.MethodGet, "/up", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestVisitorHit(t *testing.T) {
	api, app := newTestAPI(t)
	before := api.Store.VisitorStats()

	resp := doRequest(t, app, http.MethodPost, "/api/visitors/hit", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decode[dashboard.VisitorStats](t, resp)
	assert.Equal(t, before.Total+1, stats.Total)
	assert.Equal(t, before.Today+1, stats.Today)
	assert.Equal(t, before.ActiveNow+1, stats.ActiveNow)
}

func TestBrochureDownload(t *testing.T) {
	api, app := newTestAPI(t)
	brochure := api.Store.Brochures()[1]
	total := api.Store.Analytics().Downloads.Total

	resp := doRequest(t, app, http.MethodPost, "/api/brochures/"+brochure.ID+"/download", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dashboard.Brochure](t, resp)
	assert.Equal(t, brochure.DownloadCount+1, got.DownloadCount)
	assert.Equal(t, total+1, api.Store.Analytics().Downloads.Total)
}

func TestBrochureDownloadUnknownID(t *testing.T) {
	api, app := newTestAPI(t)
	before := api.Store.Analytics()

	resp := doRequest(t, app, http.MethodPost, "/api/brochures/missing/download", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, before, api.Store.Analytics())
}

func TestChartsPublicRead(t *testing.T) {
	api, app := newTestAPI(t)
	chart := api.Store.Charts()[0]

	resp := doRequest(t, app, http.MethodGet, "/api/charts", nil, "")
	assert.Len(t, decode[[]dashboard.ChartData](t, resp), 3)

	resp = doRequest(t, app, http.MethodGet, "/api/charts/"+chart.ID, nil, "")
	assert.Equal(t, chart.Title, decode[dashboard.ChartData](t, resp).Title)

	resp = doRequest(t, app, http.MethodGet, "/api/charts/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	_, app := newTestAPI(t)

	for _, path := range []string{"/api/analytics", "/api/survey/responses", "/api/waste", "/api/auth/me"} {
		t.Run(path, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestLoginFlow(t *testing.T) {
	api, app := newTestAPI(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login",
		LoginRequest{Email: adminEmail, Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, api.Store.IsAuthenticated())

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", LoginRequest{Email: "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := decode[map[string]any](t, resp)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	token := login(t, app)
	assert.True(t, api.Store.IsAuthenticated())

	resp = doRequest(t, app, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, adminEmail, decode[dashboard.User](t, resp).Email)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, api.Store.IsAuthenticated())

	resp = doRequest(t, app, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	_, app := newTestAPI(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login",
		LoginRequest{Email: adminEmail, Password: adminPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			found = true
			assert.True(t, cookie.HttpOnly)
			assert.NotEmpty(t, cookie.Value)
		}
	}
	assert.True(t, found, "session cookie not set")
}

func TestSubmitSurvey(t *testing.T) {
	api, app := newTestAPI(t)
	questions := api.Store.SurveyQuestions()
	before := api.Store.Analytics().SurveyResponses.Total

	var answers []dashboard.Answer
	for _, q := range questions {
		switch q.Kind {
		case dashboard.QuestionRating:
			answers = append(answers, dashboard.Answer{QuestionID: q.ID, Value: dashboard.RatingAnswer(4)})
		case dashboard.QuestionMultipleChoice:
			answers = append(answers, dashboard.Answer{QuestionID: q.ID, Value: dashboard.TextAnswer(q.Options[0])})
		default:
			answers = append(answers, dashboard.Answer{QuestionID: q.ID, Value: dashboard.TextAnswer("More bins please")})
		}
	}
	sub := dashboard.SurveySubmission{
		Respondent: dashboard.Respondent{Name: "Jane Doe", Email: "jane@example.com"},
		Answers:    answers,
	}

	resp := doRequest(t, app, http.MethodPost, "/api/survey/responses", sub, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dashboard.SurveyResponse](t, resp)
	assert.Equal(t, dashboard.DefaultSurveyID, created.SurveyID)

	analytics := api.Store.Analytics()
	assert.Equal(t, before+1, analytics.SurveyResponses.Total)
	assert.Equal(t, created.ID, analytics.SurveyResponses.Recent[0].ID)
}

func TestSubmitSurveyRejectsInvalid(t *testing.T) {
	api, app := newTestAPI(t)
	before := api.Store.Analytics().SurveyResponses.Total

	sub := dashboard.SurveySubmission{
		Respondent: dashboard.Respondent{Name: "J", Email: "nope"},
		Answers:    []dashboard.Answer{{QuestionID: "unknown", Value: dashboard.TextAnswer("x")}},
	}
	resp := doRequest(t, app, http.MethodPost, "/api/survey/responses", sub, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	fields := decode[map[string]any](t, resp)["fields"].(map[string]any)
	assert.Contains(t, fields, "respondent.email")
	assert.Contains(t, fields, "answers.unknown")
	assert.Equal(t, before, api.Store.Analytics().SurveyResponses.Total)
}

func TestSurveyResponsesPaginatedNewestFirst(t *testing.T) {
	_, app := newTestAPI(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/survey/responses?per=5", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decode[PaginatedResponse[dashboard.SurveyResponse]](t, resp)
	require.Len(t, page.Data, 5)
	assert.Equal(t, dashboard.SeedResponses, page.Pagination.Total)
	assert.True(t, page.Pagination.HasMore)
	for i := 1; i < len(page.Data); i++ {
		assert.False(t, page.Data[i].CreatedAt.After(page.Data[i-1].CreatedAt))
	}
}

func TestSurveyResponsesKeepInsertionOrderOnTies(t *testing.T) {
	api, app := newTestAPI(t)
	token := login(t, app)

	snap := api.Store.Snapshot()
	snap.SurveyResponses = []dashboard.SurveyResponse{
		{ID: "early", CreatedAt: testNow.Add(-time.Hour)},
		{ID: "tie-1", CreatedAt: testNow},
		{ID: "tie-2", CreatedAt: testNow},
		{ID: "tie-3", CreatedAt: testNow},
	}
	api.Store.Restore(snap)

	ids := func(query string) []string {
		resp := doRequest(t, app, http.MethodGet, "/api/survey/responses?"+query, nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out []string
		for _, r := range decode[PaginatedResponse[dashboard.SurveyResponse]](t, resp).Data {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"tie-1", "tie-2", "tie-3", "early"}, ids("sort_order=desc"))
	assert.Equal(t, []string{"early", "tie-1", "tie-2", "tie-3"}, ids("sort_order=asc"))
}

func TestSurveyExport(t *testing.T) {
	_, app := newTestAPI(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/survey/responses/export", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "survey_responses.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Name,Email,Date"))
	assert.Len(t, lines, dashboard.SeedResponses+1)
}

func TestQuestionChart(t *testing.T) {
	api, app := newTestAPI(t)
	token := login(t, app)

	var rating, text dashboard.SurveyQuestion
	for _, q := range api.Store.SurveyQuestions() {
		switch q.Kind {
		case dashboard.QuestionRating:
			rating = q
		case dashboard.QuestionText:
			text = q
		}
	}

	resp := doRequest(t, app, http.MethodGet, "/api/survey/questions/"+rating.ID+"/chart", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dashboard.ChartData](t, resp).Labels, 5)

	resp = doRequest(t, app, http.MethodGet, "/api/survey/questions/"+text.ID+"/chart", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/survey/questions/missing/chart", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChartCRUD(t *testing.T) {
	api, app := newTestAPI(t)
	token := login(t, app)

	chart := dashboard.ChartData{
		Title:    "Bins emptied",
		Kind:     dashboard.ChartBar,
		Labels:   []string{"Mon", "Tue"},
		Datasets: []dashboard.Dataset{{Label: "Bins", Data: []float64{3, 4}}},
	}
	resp := doRequest(t, app, http.MethodPost, "/api/charts", chart, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dashboard.ChartData](t, resp)
	require.NotEmpty(t, created.ID)
	assert.Len(t, api.Store.Charts(), 4)

	resp = doRequest(t, app, http.MethodPatch, "/api/charts/"+created.ID, map[string]any{"title": "Renamed"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", decode[dashboard.ChartData](t, resp).Title)

	resp = doRequest(t, app, http.MethodPatch, "/api/charts/"+created.ID, map[string]any{"labels": []string{"Mon"}}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	stored, _ := api.Store.Chart(created.ID)
	assert.Equal(t, []string{"Mon", "Tue"}, stored.Labels)

	resp = doRequest(t, app, http.MethodDelete, "/api/charts/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/charts/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, api.Store.Charts(), 3)
}

func TestCreateChartValidation(t *testing.T) {
	_, app := newTestAPI(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/charts", dashboard.ChartData{Kind: "radar"}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := decode[map[string]any](t, resp)["fields"].(map[string]any)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "type")
}

func TestWasteEndpoints(t *testing.T) {
	_, app := newTestAPI(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/waste", nil, token)
	entries := decode[[]wastedata.WasteEntry](t, resp)
	require.Len(t, entries, 3)
	assert.Equal(t, "2025-05-03", entries[0].Date)

	entry := wastedata.WasteEntry{Date: "2025-05-04", PetAmount: 10, CampaignReach: 5}
	resp = doRequest(t, app, http.MethodPost, "/api/waste", entry, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[wastedata.WasteEntry](t, resp)
	require.NotEmpty(t, created.ID)

	created.Costs = 99
	resp = doRequest(t, app, http.MethodPut, "/api/waste/"+created.ID, created, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 99.0, decode[wastedata.WasteEntry](t, resp).Costs)

	resp = doRequest(t, app, http.MethodPut, "/api/waste/"+created.ID, wastedata.WasteEntry{Date: "May 4"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/waste/totals", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/waste/export", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "waste_data.csv")

	resp = doRequest(t, app, http.MethodDelete, "/api/waste/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/waste/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyticsForAdmin(t *testing.T) {
	api, app := newTestAPI(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/analytics", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dashboard.AnalyticsData](t, resp)
	assert.Equal(t, api.Store.Analytics().Downloads.Total, got.Downloads.Total)
	assert.Len(t, got.SurveyResponses.Recent, dashboard.RecentLimit)
}

func TestRealtimeStats(t *testing.T) {
	api, app := newTestAPI(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/realtime/stats", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, realtime.Stats{}, decode[realtime.Stats](t, resp))

	api.Hub = realtime.NewHub(nil)
	t.Cleanup(api.Hub.Stop)
	resp = doRequest(t, app, http.MethodGet, "/api/realtime/stats", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[realtime.Stats](t, resp).Viewers)
}
