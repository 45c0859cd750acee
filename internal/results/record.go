// Package results persists one ResultRecord per questionnaire submission.
//
// The store is append-only: records are never mutated or deleted, and
// insertion order is the read order. Two backends implement Store: the
// flat CSV file that is the canonical interchange format, and SQLite.
package results

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/HendryAvila/tgt/internal/assessment"
)

// TimestampLayout is the persisted timestamp format (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the CSV header row, in column order.
var Header = []string{"Timestamp", "User ID", "Past Score", "Present Score", "Future Score", "Archetype"}

// Record is one persisted submission.
type Record struct {
	Timestamp    string  `json:"timestamp"`
	UserID       string  `json:"user_id"`
	PastScore    float64 `json:"past_score"`
	PresentScore float64 `json:"present_score"`
	FutureScore  float64 `json:"future_score"`
	Archetype    string  `json:"archetype"`
}

// RecordFromSubmission flattens a submission, rounding scores to 2 decimals.
func RecordFromSubmission(s assessment.Submission) Record {
	return Record{
		Timestamp:    s.SubmittedAt.UTC().Format(TimestampLayout),
		UserID:       s.UserID,
		PastScore:    assessment.Round2(s.Score(assessment.Past)),
		PresentScore: assessment.Round2(s.Score(assessment.Present)),
		FutureScore:  assessment.Round2(s.Score(assessment.Future)),
		Archetype:    s.Archetype.Label,
	}
}

// canonical returns r with its user id in stored form.
func (r Record) canonical() Record {
	r.UserID = assessment.NormalizeUserID(r.UserID)
	return r
}

// Time parses the record timestamp as UTC.
func (r Record) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.UTC)
}

// Row renders the record as CSV fields in Header order.
func (r Record) Row() []string {
	return []string{
		r.Timestamp,
		r.UserID,
		FormatScore(r.PastScore),
		FormatScore(r.PresentScore),
		FormatScore(r.FutureScore),
		r.Archetype,
	}
}

// FormatScore renders a score with exactly two decimals.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseRow is the inverse of Row.
func ParseRow(row []string) (Record, error) {
	if len(row) != len(Header) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(row))
	}

	scores := make([]float64, 3)
	for i := range scores {
		v, err := strconv.ParseFloat(row[2+i], 64)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", Header[2+i], err)
		}
		scores[i] = v
	}

	return Record{
		Timestamp:    row[0],
		UserID:       row[1],
		PastScore:    scores[0],
		PresentScore: scores[1],
		FutureScore:  scores[2],
		Archetype:    row[5],
	}, nil
}

// FilterByUser returns the records for one user in their original order.
func FilterByUser(records []Record, userID string) []Record {
	var out []Record
	for _, r := range records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// SortNewestFirst returns a copy sorted by timestamp descending. Records
// sharing a timestamp are ordered by reverse insertion.
func SortNewestFirst(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
