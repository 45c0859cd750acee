package assessment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission is the immutable result of one completed questionnaire.
// It is passed by value from scoring through classification, persistence,
// rendering, and export. Nothing holds a "current" submission globally.
type Submission struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Responses   ResponseSet     `json:"responses"`
	Scores      []CategoryScore `json:"scores"`
	Dominant    Category        `json:"dominant"`
	Archetype   Archetype       `json:"archetype"`
}

// NewSubmission validates, scores, and classifies one set of answers.
//
// A blank user id yields ErrMissingUserID; bad answers yield a
// *ValidationError. The returned submission owns a copy of rs.
func NewSubmission(bank *Bank, catalog Catalog, userID string, rs ResponseSet) (Submission, error) {
	userID = NormalizeUserID(userID)
	if userID == "" {
		return Submission{}, ErrMissingUserID
	}

	scores, err := Score(bank, rs)
	if err != nil {
		return Submission{}, err
	}

	dominant, archetype, err := Classify(catalog, scores)
	if err != nil {
		return Submission{}, err
	}

	return Submission{
		ID:          uuid.NewString(),
		UserID:      userID,
		SubmittedAt: timeNow().UTC(),
		Responses:   rs.Clone(),
		Scores:      scores,
		Dominant:    dominant,
		Archetype:   archetype,
	}, nil
}

// NormalizeUserID trims outer whitespace and folds CRLF and lone CR line
// breaks to LF. CSV readers fold CRLF inside quoted fields, so ids are
// stored in this form to read back unchanged.
func NormalizeUserID(id string) string {
	id = strings.ReplaceAll(id, "\r\n", "\n")
	id = strings.ReplaceAll(id, "\r", "\n")
	return strings.TrimSpace(id)
}

// Score returns the normalized score for one category.
func (s Submission) Score(c Category) float64 {
	return ScoreOf(s.Scores, c)
}

// State is the submission state of a questionnaire session: either
// NotSubmitted or Submitted. Consumers switch on the concrete type.
type State interface {
	isState()
}

// NotSubmitted means no answers have been scored yet.
type NotSubmitted struct{}

// Submitted carries a scored submission.
type Submitted struct {
	Submission Submission
}

func (NotSubmitted) isState() {}
func (Submitted) isState()    {}
