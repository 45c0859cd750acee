// Package assessment holds the temporal focus questionnaire itself:
// the question bank, the scoring engine, and the archetype classifier.
//
// Everything in this package is pure. Persistence lives in results,
// aggregation in report, and transport in tools/httpapi.
package assessment

import (
	"fmt"
	"strings"
)

// Category is one of the three temporal orientations a question measures.
type Category string

const (
	Past    Category = "Past"
	Present Category = "Present"
	Future  Category = "Future"
)

// Categories returns the fixed enumeration order. Every ordered output in
// the system (scores, exports, charts) and the dominant-focus tie-break
// follow this order.
func Categories() []Category {
	return []Category{Past, Present, Future}
}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q: must be one of Past, Present, Future", s)
}

// Rating bounds for a single Likert answer.
const (
	MinRating     = 1
	MaxRating     = 7
	DefaultRating = 4
)

// Question is one Likert statement of the questionnaire.
type Question struct {
	ID       string   `json:"id" yaml:"id"`
	Text     string   `json:"text" yaml:"text"`
	Category Category `json:"category" yaml:"category"`
}

// DefaultQuestions returns the standard 15-statement bank, five per category.
func DefaultQuestions() []Question {
	return []Question{
		{ID: "P1", Text: "I often find myself replaying moments from my past.", Category: Past},
		{ID: "P2", Text: "I think about what I could have done differently in the past.", Category: Past},
		{ID: "P3", Text: "My past experiences influence my emotions frequently.", Category: Past},
		{ID: "P4", Text: "I dwell on regrets more than I’d like.", Category: Past},
		{ID: "P5", Text: "Memories from earlier in life come to mind daily.", Category: Past},
		{ID: "PR1", Text: "I focus on what’s happening in the current moment.", Category: Present},
		{ID: "PR2", Text: "I feel most alive when I’m engaged in the now.", Category: Present},
		{ID: "PR3", Text: "I practice mindfulness or being present regularly.", Category: Present},
		{ID: "PR4", Text: "I often lose track of time when I’m doing something I enjoy.", Category: Present},
		{ID: "PR5", Text: "I don’t get easily distracted by future or past thoughts.", Category: Present},
		{ID: "F1", Text: "I often think about what I want to accomplish in the future.", Category: Future},
		{ID: "F2", Text: "I have a strong vision for my future.", Category: Future},
		{ID: "F3", Text: "I make detailed plans to reach long-term goals.", Category: Future},
		{ID: "F4", Text: "I frequently imagine what my ideal future looks like.", Category: Future},
		{ID: "F5", Text: "The future motivates my actions today.", Category: Future},
	}
}

// Bank is an immutable, validated, ordered question list.
type Bank struct {
	questions []Question
	byID      map[string]Question
}

// NewBank validates the questions and builds a Bank. Ids must be unique
// and non-empty, texts non-empty, and every category must have at least
// one question.
func NewBank(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	b := &Bank{
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[string]Question, len(questions)),
	}
	perCategory := make(map[Category]int)

	for i, q := range questions {
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: id is required", i+1)
		}
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("question %s: text is required", q.ID)
		}
		cat, err := ParseCategory(string(q.Category))
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		q.Category = cat
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("question %s: duplicate id", q.ID)
		}
		b.byID[q.ID] = q
		b.questions = append(b.questions, q)
		perCategory[cat]++
	}

	for _, c := range Categories() {
		if perCategory[c] == 0 {
			return nil, fmt.Errorf("category %s has no questions", c)
		}
	}
	return b, nil
}

// DefaultBank returns the bank built from DefaultQuestions.
func DefaultBank() *Bank {
	b, err := NewBank(DefaultQuestions())
	if err != nil {
		panic(fmt.Sprintf("default question bank is invalid: %v", err))
	}
	return b
}

// Questions returns a copy of the questions in bank order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Question looks up a question by id.
func (b *Bank) Question(id string) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Count returns how many questions measure the given category.
func (b *Bank) Count(c Category) int {
	n := 0
	for _, q := range b.questions {
		if q.Category == c {
			n++
		}
	}
	return n
}
