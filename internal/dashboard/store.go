package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Authenticator checks admin credentials. The store only mirrors the outcome.
type Authenticator interface {
	Authenticate(email, password string) (User, error)
}

// EventKind names the mutation that produced an Event
type EventKind string

const (
	EventVisitor  EventKind = "visitor"
	EventDownload EventKind = "download"
	EventSurvey   EventKind = "survey"
	EventChart    EventKind = "chart"
	EventRestore  EventKind = "restore"
)

// Event is delivered to OnChange listeners after a mutation has been applied.
type Event struct {
	Kind      EventKind    `json:"type"`
	At        time.Time    `json:"at"`
	Visitors  VisitorStats `json:"visitors"`
	SubjectID string       `json:"subject_id,omitempty"`
}

// Store is the authoritative in-memory holder of the dashboard data. Every
// operation runs to completion under a single lock, so mutations never
// interleave and derived analytics never drift from the raw collections.
type Store struct {
	mu sync.Mutex

	now   func() time.Time
	newID func() string
	auth  Authenticator

	user          *User
	authenticated bool

	charts    []ChartData
	brochures []Brochure
	questions []SurveyQuestion
	responses []SurveyResponse
	visitors  VisitorStats
	analytics AnalyticsData
	day       string

	listenersMu sync.RWMutex
	listeners   []func(Event)
}

// Option configures a Store
type Option func(*storeOptions)

type storeOptions struct {
	seed  uint64
	now   func() time.Time
	newID func() string
	auth  Authenticator
}

// WithSeed fixes the demo data seed
func WithSeed(seed uint64) Option {
	return func(o *storeOptions) { o.seed = seed }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) { o.now = now }
}

// WithIDGenerator replaces the identity source used for new records
func WithIDGenerator(fn func() string) Option {
	return func(o *storeOptions) { o.newID = fn }
}

// WithAuthenticator sets the credential checker used by Login
func WithAuthenticator(a Authenticator) Option {
	return func(o *storeOptions) { o.auth = a }
}

// NewStore builds a store seeded with generated demo data.
func NewStore(opts ...Option) *Store {
	o := storeOptions{
		seed:  uint64(time.Now().UnixNano()),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	gen := NewGenerator(o.seed, o.now)
	questions := gen.SurveyQuestions()
	brochures := gen.Brochures()
	responses := gen.SurveyResponses(questions)
	charts := gen.Charts()
	visitors := gen.VisitorStats()

	s := &Store{
		now:       o.now,
		newID:     o.newID,
		auth:      o.auth,
		charts:    charts,
		brochures: brochures,
		questions: questions,
		responses: responses,
		visitors:  visitors,
		day:       DateKey(o.now()),
	}
	s.analytics = Aggregate(brochures, responses, visitors, gen.DownloadHistory(), gen.SurveyHistory())
	return s
}

// OnChange registers fn to be called after every mutation. Listeners run
// outside the store lock and may read from the store.
func (s *Store) OnChange(fn func(Event)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(ev Event) {
	s.listenersMu.RLock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

func (s *Store) eventLocked(kind EventKind, subject string) Event {
	return Event{
		Kind:      kind,
		At:        s.now(),
		Visitors:  cloneVisitors(s.visitors),
		SubjectID: subject,
	}
}

// IncrementVisitor records one page visit.
func (s *Store) IncrementVisitor() {
	s.mu.Lock()
	s.visitors.Total++
	s.visitors.Today++
	s.visitors.ActiveNow++
	s.visitors.History = BumpHistory(s.visitors.History, DateKey(s.now()))
	s.analytics.Visitors = cloneVisitors(s.visitors)
	ev := s.eventLocked(EventVisitor, "")
	s.mu.Unlock()

	s.emit(ev)
}

// IncrementDownload records one download of the brochure. An unknown id
// changes nothing and reports ErrBrochureNotFound.
func (s *Store) IncrementDownload(brochureID string) error {
	s.mu.Lock()
	idx := slices.IndexFunc(s.brochures, func(b Brochure) bool { return b.ID == brochureID })
	if idx < 0 {
		s.mu.Unlock()
		return ErrBrochureNotFound
	}

	s.brochures[idx].DownloadCount++

	downloads := &s.analytics.Downloads
	downloads.Total++
	for i := range downloads.ByBrochure {
		if downloads.ByBrochure[i].BrochureID == brochureID {
			downloads.ByBrochure[i].Count++
			break
		}
	}
	downloads.History = BumpHistory(downloads.History, DateKey(s.now()))
	ev := s.eventLocked(EventDownload, brochureID)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// SubmitSurvey stores a new response with a fresh identity and the current
// time. Input is assumed to be validated by the caller.
func (s *Store) SubmitSurvey(sub SurveySubmission) SurveyResponse {
	s.mu.Lock()
	now := s.now()
	surveyID := sub.SurveyID
	if surveyID == "" {
		surveyID = DefaultSurveyID
	}
	resp := SurveyResponse{
		ID:         s.newID(),
		SurveyID:   surveyID,
		Respondent: sub.Respondent,
		Answers:    slices.Clone(sub.Answers),
		Subscribed: sub.Subscribed,
		CreatedAt:  now,
	}
	s.responses = append(s.responses, resp)

	surveys := &s.analytics.SurveyResponses
	surveys.Total = len(s.responses)
	surveys.Recent = RecentResponses(s.responses, RecentLimit)
	surveys.History = BumpHistory(surveys.History, DateKey(now))
	ev := s.eventLocked(EventSurvey, resp.ID)
	s.mu.Unlock()

	s.emit(ev)
	return cloneResponses([]SurveyResponse{resp})[0]
}

// AddChart appends a chart under a new identity. Charts whose datasets do not
// line up with their labels are rejected.
func (s *Store) AddChart(chart ChartData) (ChartData, error) {
	if err := chart.Validate(); err != nil {
		return ChartData{}, err
	}

	s.mu.Lock()
	added := chart.clone()
	added.ID = s.newID()
	s.charts = append(s.charts, added)
	ev := s.eventLocked(EventChart, added.ID)
	s.mu.Unlock()

	s.emit(ev)
	return added.clone(), nil
}

// UpdateChart merges patch into the chart with the given id. An unknown id
// changes nothing and reports ErrChartNotFound.
func (s *Store) UpdateChart(chartID string, patch ChartPatch) (ChartData, error) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.charts, func(c ChartData) bool { return c.ID == chartID })
	if idx < 0 {
		s.mu.Unlock()
		return ChartData{}, ErrChartNotFound
	}

	updated := patch.Apply(s.charts[idx])
	if patch.Labels != nil || patch.Datasets != nil || patch.Kind != nil || patch.Title != nil {
		if err := updated.Validate(); err != nil {
			s.mu.Unlock()
			return ChartData{}, err
		}
	}
	s.charts[idx] = updated
	ev := s.eventLocked(EventChart, chartID)
	s.mu.Unlock()

	s.emit(ev)
	return updated.clone(), nil
}

// DeleteChart removes the chart with the given id. An unknown id changes
// nothing and reports ErrChartNotFound.
func (s *Store) DeleteChart(chartID string) error {
	s.mu.Lock()
	before := len(s.charts)
	s.charts = slices.DeleteFunc(s.charts, func(c ChartData) bool { return c.ID == chartID })
	if len(s.charts) == before {
		s.mu.Unlock()
		return ErrChartNotFound
	}
	ev := s.eventLocked(EventChart, chartID)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// Login marks the store authenticated when the authenticator accepts the
// credentials. Without an authenticator every attempt fails.
func (s *Store) Login(email, password string) bool {
	if s.auth == nil {
		return false
	}
	user, err := s.auth.Authenticate(email, password)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.authenticated = true
	return true
}

// Logout clears the authenticated flag and the demo user.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// User returns the signed-in user, if any.
func (s *Store) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// DriftActiveVisitors moves the active visitor count by delta, never below zero.
func (s *Store) DriftActiveVisitors(delta int) {
	s.mu.Lock()
	s.visitors.ActiveNow = max(0, s.visitors.ActiveNow+delta)
	s.analytics.Visitors = cloneVisitors(s.visitors)
	ev := s.eventLocked(EventVisitor, "")
	s.mu.Unlock()

	s.emit(ev)
}

// RollDay resets the Today counter once the calendar day has changed.
// It reports whether a rollover happened.
func (s *Store) RollDay() bool {
	s.mu.Lock()
	today := DateKey(s.now())
	if today == s.day {
		s.mu.Unlock()
		return false
	}
	s.day = today
	s.visitors.Today = 0
	s.analytics.Visitors = cloneVisitors(s.visitors)
	ev := s.eventLocked(EventVisitor, "")
	s.mu.Unlock()

	s.emit(ev)
	return true
}

func (s *Store) VisitorStats() VisitorStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneVisitors(s.visitors)
}

func (s *Store) Brochures() []Brochure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.brochures)
}

func (s *Store) SurveyQuestions() []SurveyQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneQuestions(s.questions)
}

// SurveyQuestion looks a question up by id
func (s *Store) SurveyQuestion(id string) (SurveyQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID == id {
			return cloneQuestions([]SurveyQuestion{q})[0], true
		}
	}
	return SurveyQuestion{}, false
}

// SurveyResponses returns all responses in insertion order
func (s *Store) SurveyResponses() []SurveyResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneResponses(s.responses)
}

func (s *Store) Charts() []ChartData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCharts(s.charts)
}

// Chart looks a chart up by id
func (s *Store) Chart(id string) (ChartData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.charts {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return ChartData{}, false
}

// Analytics returns a copy of the derived analytics view
func (s *Store) Analytics() AnalyticsData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAnalytics(s.analytics)
}
