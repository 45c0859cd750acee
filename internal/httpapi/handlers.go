package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/chart"
	"github.com/HendryAvila/tgt/internal/export"
	"github.com/HendryAvila/tgt/internal/results"
	"github.com/HendryAvila/tgt/internal/survey"
)

// maxBodyBytes caps request bodies; a full submission is well under 1 KiB.
const maxBodyBytes = 64 << 10

// SubmitRequest is the body of POST /api/submissions.
type SubmitRequest struct {
	UserID    string                 `json:"user_id"`
	Responses assessment.ResponseSet `json:"responses"`
}

// SubmissionResponse describes one scored submission.
type SubmissionResponse struct {
	assessment.Submission
	Record    *results.Record  `json:"record,omitempty"`
	Saved     *bool            `json:"saved,omitempty"`
	SaveError string           `json:"save_error,omitempty"`
	Bars      []chart.Bar      `json:"bars"`
	Radar     chart.RadarChart `json:"radar"`
}

// JournalRequest is the body of POST /api/submissions/{id}/journal.csv.
type JournalRequest struct {
	Journal string `json:"journal"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) questions(w http.ResponseWriter, _ *http.Request) {
	catalog := a.survey.Catalog()
	archetypes := make([]assessment.Archetype, 0, 3)
	for _, c := range assessment.Categories() {
		archetypes = append(archetypes, catalog[c])
	}
	writeJSON(w, http.StatusOK, struct {
		MinRating     int                    `json:"min_rating"`
		MaxRating     int                    `json:"max_rating"`
		DefaultRating int                    `json:"default_rating"`
		Questions     []assessment.Question  `json:"questions"`
		Archetypes    []assessment.Archetype `json:"archetypes"`
	}{
		MinRating:     assessment.MinRating,
		MaxRating:     assessment.MaxRating,
		DefaultRating: assessment.DefaultRating,
		Questions:     a.survey.Bank().Questions(),
		Archetypes:    archetypes,
	})
}

func (a *api) submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := a.survey.Submit(r.Context(), req.UserID, req.Responses)
	if err != nil {
		a.fail(w, "submit", err)
		return
	}

	resp := newSubmissionResponse(out.Submission)
	resp.Record = &out.Record
	resp.Saved = &out.Saved
	if out.SaveErr != nil {
		resp.SaveError = out.SaveErr.Error()
	}
	w.Header().Set("Location", "/api/submissions/"+out.Submission.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (a *api) submission(w http.ResponseWriter, r *http.Request) {
	st, ok := a.survey.Lookup(mux.Vars(r)["id"]).(assessment.Submitted)
	if !ok {
		writeError(w, http.StatusNotFound, survey.ErrUnknownSubmission)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(st.Submission))
}

func (a *api) exportScores(w http.ResponseWriter, r *http.Request) {
	artifact, err := a.survey.ExportScores(mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, "export scores", err)
		return
	}
	writeArtifact(w, artifact)
}

func (a *api) exportJournal(w http.ResponseWriter, r *http.Request) {
	var req JournalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	artifact, err := a.survey.Journal(mux.Vars(r)["id"], req.Journal)
	if err != nil {
		a.fail(w, "export journal", err)
		return
	}
	writeArtifact(w, artifact)
}

func (a *api) history(w http.ResponseWriter, r *http.Request) {
	recs, err := a.survey.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, "history", err)
		return
	}
	if recs == nil {
		recs = []results.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (a *api) report(w http.ResponseWriter, r *http.Request) {
	rep, err := a.survey.TeamReport(r.Context())
	if err != nil {
		a.fail(w, "team report", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *api) whitepaper(w http.ResponseWriter, r *http.Request) {
	if a.whitepaperPath == "" {
		writeError(w, http.StatusNotFound, errors.New("no white paper configured"))
		return
	}
	f, err := os.Open(a.whitepaperPath)
	if err != nil {
		a.logger.Warn("opening white paper", zap.String("path", a.whitepaperPath), zap.Error(err))
		writeError(w, http.StatusNotFound, errors.New("white paper unavailable"))
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	name := filepath.Base(a.whitepaperPath)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// --- Helpers ---

func newSubmissionResponse(s assessment.Submission) SubmissionResponse {
	return SubmissionResponse{
		Submission: s,
		Bars:       chart.Bars(s.Scores, chart.DefaultWidth),
		Radar:      chart.Radar(s.Scores),
	}
}

// fail writes err with its mapped status, logging server-side failures.
func (a *api) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error(op, zap.Error(err))
	}
	writeError(w, status, err)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var verr *assessment.ValidationError
	switch {
	case errors.Is(err, assessment.ErrMissingUserID), errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, survey.ErrUnknownSubmission):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var verr *assessment.ValidationError
	if errors.As(err, &verr) {
		resp.Problems = verr.Problems
	}
	writeJSON(w, status, resp)
}

func writeArtifact(w http.ResponseWriter, a export.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}
