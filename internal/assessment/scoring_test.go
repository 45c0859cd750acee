package assessment

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// uniform answers every question in the bank with the same rating.
func uniform(bank *Bank, v int) ResponseSet {
	rs := make(ResponseSet, bank.Len())
	for _, q := range bank.Questions() {
		rs[q.ID] = v
	}
	return rs
}

// byCategory answers each category with its own rating.
func byCategory(bank *Bank, ratings map[Category]int) ResponseSet {
	rs := make(ResponseSet, bank.Len())
	for _, q := range bank.Questions() {
		rs[q.ID] = ratings[q.Category]
	}
	return rs
}

// --- Question bank ---

func TestDefaultQuestions_FivePerCategory(t *testing.T) {
	bank := DefaultBank()
	if bank.Len() != 15 {
		t.Fatalf("Len() = %d, want 15", bank.Len())
	}
	for _, c := range Categories() {
		if got := bank.Count(c); got != 5 {
			t.Errorf("Count(%s) = %d, want 5", c, got)
		}
	}
}

func TestDefaultQuestions_Wording(t *testing.T) {
	want := map[string]string{
		"P4":  "I dwell on regrets more than I’d like.",
		"PR1": "I focus on what’s happening in the current moment.",
		"PR2": "I feel most alive when I’m engaged in the now.",
		"PR4": "I often lose track of time when I’m doing something I enjoy.",
		"PR5": "I don’t get easily distracted by future or past thoughts.",
	}
	bank := DefaultBank()
	for id, text := range want {
		q, ok := bank.Question(id)
		if !ok {
			t.Fatalf("question %s missing", id)
		}
		if q.Text != text {
			t.Errorf("%s text = %q, want %q", id, q.Text, text)
		}
	}
	if !strings.Contains(DefaultCatalog()[Future].Summary, "You’re future-focused") {
		t.Errorf("Future summary = %q", DefaultCatalog()[Future].Summary)
	}
}

func TestNewBank_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		wantErr   string
	}{
		{"empty", nil, "empty"},
		{"blank id", []Question{{ID: " ", Text: "x", Category: Past}}, "id is required"},
		{"blank text", []Question{{ID: "A", Category: Past}}, "text is required"},
		{"bad category", []Question{{ID: "A", Text: "x", Category: "Someday"}}, "unknown category"},
		{"duplicate", []Question{
			{ID: "A", Text: "x", Category: Past},
			{ID: "A", Text: "y", Category: Present},
		}, "duplicate id"},
		{"missing category", []Question{
			{ID: "A", Text: "x", Category: Past},
			{ID: "B", Text: "y", Category: Present},
		}, "Future has no questions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBank(tt.questions)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseCategory_CaseInsensitive(t *testing.T) {
	got, err := ParseCategory(" present ")
	if err != nil {
		t.Fatalf("ParseCategory: %v", err)
	}
	if got != Present {
		t.Errorf("ParseCategory = %s, want Present", got)
	}
}

// --- Score ---

func TestScore_AllMidpoint(t *testing.T) {
	bank := DefaultBank()
	scores, err := Score(bank, uniform(bank, 4))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d, want 3", len(scores))
	}
	want := 4.0 / 7.0 * 100
	for _, s := range scores {
		if math.Abs(s.Normalized-want) > 1e-9 {
			t.Errorf("%s = %v, want %v", s.Category, s.Normalized, want)
		}
		if Round2(s.Normalized) != 57.14 {
			t.Errorf("Round2(%s) = %v, want 57.14", s.Category, Round2(s.Normalized))
		}
	}
}

func TestScore_Extremes(t *testing.T) {
	bank := DefaultBank()
	tests := []struct {
		rating int
		want   float64
	}{
		{1, 100.0 / 7.0},
		{7, 100},
	}
	for _, tt := range tests {
		scores, err := Score(bank, uniform(bank, tt.rating))
		if err != nil {
			t.Fatalf("Score(%d): %v", tt.rating, err)
		}
		for _, s := range scores {
			if math.Abs(s.Normalized-tt.want) > 1e-9 {
				t.Errorf("rating %d: %s = %v, want %v", tt.rating, s.Category, s.Normalized, tt.want)
			}
		}
	}
}

func TestScore_CategoryOrder(t *testing.T) {
	bank := DefaultBank()
	scores, err := Score(bank, uniform(bank, 3))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i, c := range Categories() {
		if scores[i].Category != c {
			t.Errorf("scores[%d] = %s, want %s", i, scores[i].Category, c)
		}
	}
}

func TestScore_OrderInvariant(t *testing.T) {
	bank := DefaultBank()
	forward := ResponseSet{}
	backward := ResponseSet{}
	questions := bank.Questions()
	for i, q := range questions {
		forward[q.ID] = 1 + i%7
	}
	for i := len(questions) - 1; i >= 0; i-- {
		backward[questions[i].ID] = forward[questions[i].ID]
	}

	a, err := Score(bank, forward)
	if err != nil {
		t.Fatalf("Score(forward): %v", err)
	}
	b, err := Score(bank, backward)
	if err != nil {
		t.Fatalf("Score(backward): %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("score %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestScore_UsesActualCount(t *testing.T) {
	bank, err := NewBank([]Question{
		{ID: "a", Text: "a", Category: Past},
		{ID: "b", Text: "b", Category: Past},
		{ID: "c", Text: "c", Category: Present},
		{ID: "d", Text: "d", Category: Future},
	})
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}

	scores, err := Score(bank, ResponseSet{"a": 7, "b": 7, "c": 7, "d": 7})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for _, s := range scores {
		if s.Normalized != 100 {
			t.Errorf("%s = %v, want 100", s.Category, s.Normalized)
		}
	}
}

func TestScore_RejectsInvalid(t *testing.T) {
	bank := DefaultBank()

	tests := []struct {
		name   string
		mutate func(ResponseSet)
		want   string
	}{
		{"missing", func(rs ResponseSet) { delete(rs, "P3") }, "P3: missing answer"},
		{"too low", func(rs ResponseSet) { rs["F1"] = 0 }, "F1: rating 0 out of range"},
		{"too high", func(rs ResponseSet) { rs["PR2"] = 8 }, "PR2: rating 8 out of range"},
		{"unknown", func(rs ResponseSet) { rs["X9"] = 4 }, "X9: unknown question"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := uniform(bank, 4)
			tt.mutate(rs)

			scores, err := Score(bank, rs)
			if scores != nil {
				t.Errorf("expected no scores, got %v", scores)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidateResponses_ReportsAllProblemsInOrder(t *testing.T) {
	bank := DefaultBank()
	rs := uniform(bank, 4)
	delete(rs, "P1")
	rs["F5"] = 9
	rs["ZZ"] = 1
	rs["AA"] = 1

	err := ValidateResponses(bank, rs)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	want := []string{
		"P1: missing answer",
		"F5: rating 9 out of range [1,7]",
		"AA: unknown question",
		"ZZ: unknown question",
	}
	if len(verr.Problems) != len(want) {
		t.Fatalf("problems = %v, want %v", verr.Problems, want)
	}
	for i := range want {
		if verr.Problems[i] != want[i] {
			t.Errorf("problem[%d] = %q, want %q", i, verr.Problems[i], want[i])
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{57.142857, 57.14},
		{14.285714, 14.29},
		{100, 100},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// --- Classifier ---

func TestDominant_TieBreakPriority(t *testing.T) {
	tests := []struct {
		name   string
		scores []CategoryScore
		want   Category
	}{
		{"past and present tie", []CategoryScore{{Past, 50}, {Present, 50}, {Future, 30}}, Past},
		{"present and future tie", []CategoryScore{{Past, 10}, {Present, 60}, {Future, 60}}, Present},
		{"three-way tie", []CategoryScore{{Past, 40}, {Present, 40}, {Future, 40}}, Past},
		{"input order ignored", []CategoryScore{{Future, 50}, {Present, 50}, {Past, 30}}, Present},
		{"clear winner", []CategoryScore{{Past, 10}, {Present, 20}, {Future, 90}}, Future},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for run := 0; run < 20; run++ {
				if got := Dominant(tt.scores); got != tt.want {
					t.Fatalf("run %d: Dominant = %s, want %s", run, got, tt.want)
				}
			}
		})
	}
}

func TestClassify_DefaultLabels(t *testing.T) {
	want := map[Category]string{
		Past:    "The Nostalgic",
		Present: "The Flow-Seeker",
		Future:  "The Visionary",
	}
	for cat, label := range want {
		scores := []CategoryScore{{Past, 0}, {Present, 0}, {Future, 0}}
		for i := range scores {
			if scores[i].Category == cat {
				scores[i].Normalized = 100
			}
		}
		dom, a, err := Classify(DefaultCatalog(), scores)
		if err != nil {
			t.Fatalf("Classify(%s): %v", cat, err)
		}
		if dom != cat {
			t.Errorf("dominant = %s, want %s", dom, cat)
		}
		if a.Label != label {
			t.Errorf("label = %q, want %q", a.Label, label)
		}
		if len(a.Tips) == 0 {
			t.Errorf("%s archetype has no tips", cat)
		}
	}
}

func TestClassify_MissingArchetype(t *testing.T) {
	_, _, err := Classify(Catalog{}, []CategoryScore{{Past, 1}})
	if err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

// --- Submission ---

func TestNewSubmission_EndToEndScores(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = orig }()

	bank := DefaultBank()
	rs := byCategory(bank, map[Category]int{Past: 7, Present: 1, Future: 4})

	sub, err := NewSubmission(bank, DefaultCatalog(), "  alice ", rs)
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}

	if sub.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", sub.UserID)
	}
	if !sub.SubmittedAt.Equal(fixed) {
		t.Errorf("SubmittedAt = %v, want %v", sub.SubmittedAt, fixed)
	}
	if sub.ID == "" {
		t.Error("ID should be set")
	}
	if got := Round2(sub.Score(Past)); got != 100 {
		t.Errorf("Past = %v, want 100", got)
	}
	if got := Round2(sub.Score(Present)); got != 14.29 {
		t.Errorf("Present = %v, want 14.29", got)
	}
	if got := Round2(sub.Score(Future)); got != 57.14 {
		t.Errorf("Future = %v, want 57.14", got)
	}
	if sub.Dominant != Past {
		t.Errorf("Dominant = %s, want Past", sub.Dominant)
	}
	if sub.Archetype.Label != "The Nostalgic" {
		t.Errorf("Archetype = %q, want The Nostalgic", sub.Archetype.Label)
	}
}

func TestNewSubmission_CopiesResponses(t *testing.T) {
	bank := DefaultBank()
	rs := uniform(bank, 5)
	sub, err := NewSubmission(bank, DefaultCatalog(), "bob", rs)
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	rs["P1"] = 1
	if sub.Responses["P1"] != 5 {
		t.Errorf("submission responses changed with caller map: P1 = %d", sub.Responses["P1"])
	}
}

func TestNewSubmission_BlankUser(t *testing.T) {
	bank := DefaultBank()
	_, err := NewSubmission(bank, DefaultCatalog(), "   ", uniform(bank, 4))
	if !errors.Is(err, ErrMissingUserID) {
		t.Errorf("error = %v, want ErrMissingUserID", err)
	}
}

func TestNormalizeUserID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice", "alice"},
		{"  alice\t", "alice"},
		{"al\r\nice", "al\nice"},
		{"al\rice", "al\nice"},
		{"al\nice", "al\nice"},
		{"a\r\n\rb", "a\n\nb"},
		{"\r\n", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUserID(tt.in); got != tt.want {
			t.Errorf("NormalizeUserID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewSubmission_NormalizesLineBreaks(t *testing.T) {
	bank := DefaultBank()
	sub, err := NewSubmission(bank, DefaultCatalog(), "al\r\nice", uniform(bank, 4))
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if sub.UserID != "al\nice" {
		t.Errorf("UserID = %q, want %q", sub.UserID, "al\nice")
	}

	if _, err := NewSubmission(bank, DefaultCatalog(), "\r\n\r", uniform(bank, 4)); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("line breaks only: error = %v, want ErrMissingUserID", err)
	}
}

func TestState_TypeSwitch(t *testing.T) {
	describe := func(s State) string {
		switch st := s.(type) {
		case NotSubmitted:
			return "pending"
		case Submitted:
			return st.Submission.UserID
		default:
			return "unknown"
		}
	}

	if got := describe(NotSubmitted{}); got != "pending" {
		t.Errorf("NotSubmitted = %q, want pending", got)
	}
	if got := describe(Submitted{Submission: Submission{UserID: "carol"}}); got != "carol" {
		t.Errorf("Submitted = %q, want carol", got)
	}
}
