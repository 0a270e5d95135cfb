package dashboard

import (
	"slices"
	"time"
)

// Snapshot is a point-in-time copy of the store contents, used by the seed
// command and by the persistence layer.
type Snapshot struct {
	TakenAt         time.Time        `json:"taken_at" yaml:"taken_at"`
	Visitors        VisitorStats     `json:"visitors" yaml:"visitors"`
	Brochures       []Brochure       `json:"brochures" yaml:"brochures"`
	SurveyQuestions []SurveyQuestion `json:"survey_questions" yaml:"survey_questions"`
	SurveyResponses []SurveyResponse `json:"survey_responses" yaml:"survey_responses"`
	Charts          []ChartData      `json:"charts" yaml:"charts"`
	Analytics       AnalyticsData    `json:"analytics" yaml:"analytics"`
}

// Snapshot returns a deep copy of the whole store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		TakenAt:         s.now(),
		Visitors:        cloneVisitors(s.visitors),
		Brochures:       slices.Clone(s.brochures),
		SurveyQuestions: cloneQuestions(s.questions),
		SurveyResponses: cloneResponses(s.responses),
		Charts:          cloneCharts(s.charts),
		Analytics:       cloneAnalytics(s.analytics),
	}
}

// Restore replaces the store contents with snap. The analytics totals and
// recent list are recomputed from the restored collections; only the
// download and survey history series are taken from the snapshot. The
// visitor Today count belongs to the day the snapshot was taken, so the next
// RollDay resets it when that day has passed.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	s.visitors = cloneVisitors(snap.Visitors)
	if !snap.TakenAt.IsZero() {
		s.day = DateKey(snap.TakenAt)
	}
	s.brochures = slices.Clone(snap.Brochures)
	s.questions = cloneQuestions(snap.SurveyQuestions)
	s.responses = cloneResponses(snap.SurveyResponses)
	s.charts = cloneCharts(snap.Charts)
	s.analytics = Aggregate(
		s.brochures,
		s.responses,
		s.visitors,
		snap.Analytics.Downloads.History,
		snap.Analytics.SurveyResponses.History,
	)
	ev := s.eventLocked(EventRestore, "")
	s.mu.Unlock()

	s.emit(ev)
}
