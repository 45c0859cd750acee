package results

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/HendryAvila/tgt/internal/assessment"
)

// --- RecordFromSubmission ---

func TestRecordFromSubmission(t *testing.T) {
	sub := assessment.Submission{
		UserID:      "alice",
		SubmittedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 2*3600)),
		Scores: []assessment.CategoryScore{
			{Category: assessment.Past, Normalized: 100},
			{Category: assessment.Present, Normalized: 100.0 / 7},
			{Category: assessment.Future, Normalized: 400.0 / 7},
		},
		Dominant:  assessment.Past,
		Archetype: assessment.Archetype{Category: assessment.Past, Label: "The Nostalgic"},
	}

	got := RecordFromSubmission(sub)
	want := Record{
		Timestamp:    "2026-03-04 03:06:07",
		UserID:       "alice",
		PastScore:    100,
		PresentScore: 14.29,
		FutureScore:  57.14,
		Archetype:    "The Nostalgic",
	}
	if got != want {
		t.Errorf("RecordFromSubmission = %+v, want %+v", got, want)
	}

	ts, err := got.Time()
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if !ts.Equal(sub.SubmittedAt) {
		t.Errorf("Time = %v, want %v", ts, sub.SubmittedAt)
	}
}

// --- Row / ParseRow ---

func TestRow_FormatsTwoDecimals(t *testing.T) {
	r := Record{Timestamp: "t", UserID: "u", PastScore: 57.142857, PresentScore: 0, FutureScore: 100, Archetype: "a"}
	got := r.Row()
	want := []string{"t", "u", "57.14", "0.00", "100.00", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Row()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseRow_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"too few fields", []string{"a", "b"}},
		{"bad past", []string{"t", "u", "x", "1", "1", "a"}},
		{"bad present", []string{"t", "u", "1", "", "1", "a"}},
		{"bad future", []string{"t", "u", "1", "1", "1,5", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRow(tt.row); err == nil {
				t.Errorf("ParseRow(%v) should fail", tt.row)
			}
		})
	}
}

// --- Ordering ---

func TestSortNewestFirst(t *testing.T) {
	records := []Record{
		{Timestamp: "2026-01-01 10:00:00", Archetype: "a"},
		{Timestamp: "2026-01-03 10:00:00", Archetype: "b"},
		{Timestamp: "2026-01-02 10:00:00", Archetype: "c"},
		{Timestamp: "2026-01-03 10:00:00", Archetype: "d"},
	}
	got := SortNewestFirst(records)

	var order string
	for _, r := range got {
		order += r.Archetype
	}
	if order != "dbca" {
		t.Errorf("order = %q, want %q", order, "dbca")
	}
	if records[0].Archetype != "a" {
		t.Error("SortNewestFirst must not modify its input")
	}
}

func TestFilterByUser(t *testing.T) {
	got := FilterByUser(sampleRecords(), "bob")
	if len(got) != 1 || got[0].UserID != "bob" {
		t.Errorf("FilterByUser(bob) = %v", got)
	}
	if FilterByUser(nil, "bob") != nil {
		t.Error("FilterByUser(nil) should be nil")
	}
}

// --- Open ---

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Options{CSVPath: filepath.Join(dir, "r.csv")})
	if err != nil {
		t.Fatalf("Open(csv default): %v", err)
	}
	if _, ok := s.(*CSVStore); !ok {
		t.Errorf("default backend = %T, want *CSVStore", s)
	}

	s, err = Open(Options{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "r.db")})
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("sqlite backend = %T, want *SQLiteStore", s)
	}

	if _, err := Open(Options{Backend: "mongo"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
