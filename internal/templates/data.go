package templates

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/chart"
	"github.com/HendryAvila/tgt/internal/report"
	"github.com/HendryAvila/tgt/internal/results"
)

// QuestionsData feeds the question list template.
type QuestionsData struct {
	Questions     []assessment.Question
	MinRating     int
	MaxRating     int
	DefaultRating int
}

// NewQuestionsData lists the bank with the rating scale.
func NewQuestionsData(bank *assessment.Bank) QuestionsData {
	return QuestionsData{
		Questions:     bank.Questions(),
		MinRating:     assessment.MinRating,
		MaxRating:     assessment.MaxRating,
		DefaultRating: assessment.DefaultRating,
	}
}

// ScoreLine is one category row of a result.
type ScoreLine struct {
	Category assessment.Category
	Score    float64
	Bar      string
}

// ResultData feeds the result template. Submitted is false for a
// NotSubmitted state, in which case only that fact is rendered.
type ResultData struct {
	Submitted    bool
	SubmissionID string
	UserID       string
	Scores       []ScoreLine
	Dominant     assessment.Category
	Archetype    assessment.Archetype
	Saved        bool
	SaveError    string
}

// NewResultData flattens a submission state. saveErr is the persistence
// outcome; a non-nil error renders a failed-save notice alongside the
// still-valid result.
func NewResultData(state assessment.State, saveErr error) ResultData {
	s, ok := state.(assessment.Submitted)
	if !ok {
		return ResultData{}
	}
	sub := s.Submission
	d := ResultData{
		Submitted:    true,
		SubmissionID: sub.ID,
		UserID:       sub.UserID,
		Dominant:     sub.Dominant,
		Archetype:    sub.Archetype,
		Saved:        saveErr == nil,
	}
	if saveErr != nil {
		d.SaveError = saveErr.Error()
	}
	for _, b := range chart.Bars(sub.Scores, chart.DefaultWidth) {
		d.Scores = append(d.Scores, ScoreLine{
			Category: b.Category,
			Score:    assessment.Round2(b.Value),
			Bar:      b.String(),
		})
	}
	return d
}

// HistoryEntry is one row of a user's history table.
type HistoryEntry struct {
	results.Record
	Age string
}

// HistoryData feeds the history template.
type HistoryData struct {
	UserID  string
	Entries []HistoryEntry
}

// NewHistoryData orders records newest first and adds a humanized age
// relative to now.
func NewHistoryData(userID string, records []results.Record, now time.Time) HistoryData {
	d := HistoryData{UserID: userID}
	for _, r := range results.SortNewestFirst(records) {
		age := ""
		if ts, err := r.Time(); err == nil {
			age = humanize.RelTime(ts, now, "ago", "from now")
		}
		d.Entries = append(d.Entries, HistoryEntry{Record: r, Age: age})
	}
	return d
}

// TeamReportData feeds the team report template.
type TeamReportData struct {
	report.Report
}

// NewTeamReportData wraps an aggregated report.
func NewTeamReportData(rep report.Report) TeamReportData {
	return TeamReportData{Report: rep}
}
