// Package export builds the downloadable CSV artifacts for a submission.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/results"
)

// ScoresFilename is the download name of the per-submission score export.
const ScoresFilename = "temporal_focus_results.csv"

// ContentType is the MIME type of every artifact.
const ContentType = "text/csv; charset=utf-8"

// ErrNotSubmitted is returned when exporting a state with no submission.
var ErrNotSubmitted = errors.New("export: nothing submitted yet")

// Artifact is a named downloadable file.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScoresCSV exports the three normalized scores of a submitted state.
func ScoresCSV(state assessment.State) (Artifact, error) {
	switch s := state.(type) {
	case assessment.Submitted:
		rows := [][]string{{"Category", "Score (%)"}}
		for _, c := range assessment.Categories() {
			rows = append(rows, []string{string(c), results.FormatScore(s.Submission.Score(c))})
		}
		data, err := encode(rows)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: ScoresFilename, ContentType: ContentType, Data: data}, nil
	case assessment.NotSubmitted, nil:
		return Artifact{}, ErrNotSubmitted
	default:
		return Artifact{}, fmt.Errorf("export: unknown state %T", state)
	}
}

// JournalEntry is one free-text reflection attached to a result.
type JournalEntry struct {
	UserID    string
	Timestamp time.Time
	Archetype string
	Journal   string
}

// JournalCSV exports a single journal entry as <user_id>_TGT_Journal.csv.
func JournalCSV(e JournalEntry) (Artifact, error) {
	if strings.TrimSpace(e.UserID) == "" {
		return Artifact{}, assessment.ErrMissingUserID
	}
	rows := [][]string{
		{"User ID", "Timestamp", "Archetype", "Journal"},
		{e.UserID, e.Timestamp.UTC().Format(results.TimestampLayout), e.Archetype, e.Journal},
	}
	data, err := encode(rows)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename:    JournalFilename(e.UserID),
		ContentType: ContentType,
		Data:        data,
	}, nil
}

// JournalFilename returns the download name for a user's journal.
func JournalFilename(userID string) string {
	return SanitizeFilename(userID) + "_TGT_Journal.csv"
}

// SanitizeFilename keeps ASCII letters, digits, '-' and '_', replacing
// everything else with '_'. A blank id becomes "anonymous".
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "anonymous"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func encode(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("export: encoding csv: %w", err)
	}
	return buf.Bytes(), nil
}
