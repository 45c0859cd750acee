// Package survey runs questionnaire submissions end to end: scoring,
// classification, persistence, history, team reporting, and exports.
//
// Every surface (MCP tools, HTTP API, CLI) goes through a Service, so they
// share the same validation and failure semantics.
package survey

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/export"
	"github.com/HendryAvila/tgt/internal/metrics"
	"github.com/HendryAvila/tgt/internal/report"
	"github.com/HendryAvila/tgt/internal/results"
)

// ErrUnknownSubmission is returned for a submission id that was never
// issued by this process or has been evicted from the cache.
var ErrUnknownSubmission = errors.New("unknown submission")

// DefaultCacheSize bounds the submission cache when Options leaves it unset.
const DefaultCacheSize = 256

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// Outcome is the result of a scored submission. The Submission is valid
// even when Saved is false; SaveErr then explains the failed write.
type Outcome struct {
	Submission assessment.Submission
	Record     results.Record
	Saved      bool
	SaveErr    error
}

// Options wires a Service.
type Options struct {
	Bank      *assessment.Bank
	Catalog   assessment.Catalog
	Store     results.Store
	Backend   string
	CacheSize int
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Service coordinates one questionnaire deployment.
type Service struct {
	bank    *assessment.Bank
	catalog assessment.Catalog
	store   results.Store
	backend string
	cache   *lru.Cache[string, assessment.Submission]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New validates opts and builds a Service. Bank and Catalog default to the
// built-in questionnaire; Store is required.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("survey: store is required")
	}
	if opts.Bank == nil {
		opts.Bank = assessment.DefaultBank()
	}
	if opts.Catalog == nil {
		opts.Catalog = assessment.DefaultCatalog()
	}
	if err := opts.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("survey: %w", err)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Backend == "" {
		opts.Backend = string(results.BackendCSV)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cache, err := lru.New[string, assessment.Submission](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("survey: creating cache: %w", err)
	}

	return &Service{
		bank:    opts.Bank,
		catalog: opts.Catalog,
		store:   opts.Store,
		backend: opts.Backend,
		cache:   cache,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}, nil
}

// Bank returns the active question bank.
func (s *Service) Bank() *assessment.Bank { return s.bank }

// Catalog returns the active archetype catalog.
func (s *Service) Catalog() assessment.Catalog { return s.catalog }

// Submit scores one questionnaire and appends its record.
//
// A blank user id returns assessment.ErrMissingUserID and bad answers a
// *assessment.ValidationError; nothing is written in either case. A store
// failure is not an error: the Outcome carries the valid result with
// Saved=false.
func (s *Service) Submit(ctx context.Context, userID string, rs assessment.ResponseSet) (Outcome, error) {
	sub, err := assessment.NewSubmission(s.bank, s.catalog, userID, rs)
	if err != nil {
		s.reject(err)
		return Outcome{}, err
	}
	s.cache.Add(sub.ID, sub)
	s.metrics.Submission(sub.Archetype.Label)

	rec := results.RecordFromSubmission(sub)
	out := Outcome{Submission: sub, Record: rec, Saved: true}

	saveErr := s.store.Append(ctx, rec)
	s.metrics.StoreWrite(s.backend, saveErr)
	if saveErr != nil {
		out.Saved = false
		out.SaveErr = saveErr
		s.logger.Error("saving result failed",
			zap.String("submission_id", sub.ID),
			zap.String("user_id", sub.UserID),
			zap.Error(saveErr))
		return out, nil
	}

	s.logger.Info("submission stored",
		zap.String("submission_id", sub.ID),
		zap.String("user_id", sub.UserID),
		zap.String("dominant", string(sub.Dominant)),
		zap.String("archetype", sub.Archetype.Label))
	return out, nil
}

func (s *Service) reject(err error) {
	var verr *assessment.ValidationError
	switch {
	case errors.Is(err, assessment.ErrMissingUserID):
		s.metrics.Rejection("missing_user_id")
	case errors.As(err, &verr):
		s.metrics.Rejection("invalid_responses")
	default:
		s.metrics.Rejection("other")
	}
	s.logger.Debug("submission rejected", zap.Error(err))
}

// History returns one user's records, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]results.Record, error) {
	userID = assessment.NormalizeUserID(userID)
	if userID == "" {
		return nil, assessment.ErrMissingUserID
	}
	recs, err := s.store.ReadByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("survey: reading history: %w", err)
	}
	return results.SortNewestFirst(recs), nil
}

// TeamReport aggregates every stored record.
func (s *Service) TeamReport(ctx context.Context) (report.Report, error) {
	recs, err := s.store.ReadAll(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("survey: reading results: %w", err)
	}
	return report.Aggregate(recs), nil
}

// Lookup returns the state of a submission id: Submitted while it is
// cached, NotSubmitted otherwise.
func (s *Service) Lookup(id string) assessment.State {
	sub, ok := s.cache.Get(id)
	if !ok {
		s.metrics.CacheMiss()
		return assessment.NotSubmitted{}
	}
	s.metrics.CacheHit()
	return assessment.Submitted{Submission: sub}
}

// ExportScores builds the per-submission score CSV.
func (s *Service) ExportScores(id string) (export.Artifact, error) {
	a, err := export.ScoresCSV(s.Lookup(id))
	if errors.Is(err, export.ErrNotSubmitted) {
		return export.Artifact{}, ErrUnknownSubmission
	}
	return a, err
}

// Journal attaches a free-text reflection to a submission and returns the
// journal CSV. The text is not persisted.
func (s *Service) Journal(id, text string) (export.Artifact, error) {
	st, ok := s.Lookup(id).(assessment.Submitted)
	if !ok {
		return export.Artifact{}, ErrUnknownSubmission
	}
	return export.JournalCSV(export.JournalEntry{
		UserID:    st.Submission.UserID,
		Timestamp: timeNow(),
		Archetype: st.Submission.Archetype.Label,
		Journal:   text,
	})
}

// JournalLatest builds the journal CSV against the user's most recent
// stored result, for callers that no longer hold a submission id.
func (s *Service) JournalLatest(ctx context.Context, userID, text string) (export.Artifact, error) {
	recs, err := s.History(ctx, userID)
	if err != nil {
		return export.Artifact{}, err
	}
	if len(recs) == 0 {
		return export.Artifact{}, fmt.Errorf("survey: no stored results for %q: %w", assessment.NormalizeUserID(userID), ErrUnknownSubmission)
	}
	return export.JournalCSV(export.JournalEntry{
		UserID:    recs[0].UserID,
		Timestamp: timeNow(),
		Archetype: recs[0].Archetype,
		Journal:   text,
	})
}
