// Package httpapi exposes the questionnaire over plain HTTP: JSON
// endpoints, CSV downloads, the white paper, metrics, and optionally the
// MCP streamable-HTTP transport on the same listener.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/export"
	"github.com/HendryAvila/tgt/internal/metrics"
	"github.com/HendryAvila/tgt/internal/report"
	"github.com/HendryAvila/tgt/internal/results"
	"github.com/HendryAvila/tgt/internal/survey"
)

// Survey is the part of survey.Service the HTTP handlers call.
type Survey interface {
	Bank() *assessment.Bank
	Catalog() assessment.Catalog
	Submit(ctx context.Context, userID string, rs assessment.ResponseSet) (survey.Outcome, error)
	History(ctx context.Context, userID string) ([]results.Record, error)
	TeamReport(ctx context.Context) (report.Report, error)
	Lookup(id string) assessment.State
	ExportScores(id string) (export.Artifact, error)
	Journal(id, text string) (export.Artifact, error)
}

// Options wires the router.
type Options struct {
	Survey         Survey
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	WhitepaperPath string
	// MCP, when set, is mounted under /mcp.
	MCP http.Handler
	// AccessLog receives one Apache combined log line per request.
	// Defaults to stderr; stdout may be the MCP stdio channel.
	AccessLog io.Writer
}

type api struct {
	survey         Survey
	logger         *zap.Logger
	whitepaperPath string
}

// NewRouter builds the full handler chain: routes, per-route metrics,
// panic recovery, and access logging.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = os.Stderr
	}
	a := &api{survey: opts.Survey, logger: logger, whitepaperPath: opts.WhitepaperPath}
	m := opts.Metrics

	r := mux.NewRouter()
	route := func(path, name string, h http.HandlerFunc, methods ...string) {
		r.Handle(path, m.WrapHandler(name, h)).Methods(methods...)
	}

	route("/health", "health", a.health, http.MethodGet)
	route("/api/questions", "questions", a.questions, http.MethodGet)
	route("/api/submissions", "submit", a.submit, http.MethodPost)
	route("/api/submissions/{id}", "submission", a.submission, http.MethodGet)
	route("/api/submissions/{id}/export.csv", "export_scores", a.exportScores, http.MethodGet)
	route("/api/submissions/{id}/journal.csv", "export_journal", a.exportJournal, http.MethodPost)
	// User ids are free text and may contain '/'.
	route("/api/users/{id:.+}/history", "history", a.history, http.MethodGet)
	route("/api/report", "report", a.report, http.MethodGet)
	route("/whitepaper", "whitepaper", a.whitepaper, http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	if opts.MCP != nil {
		r.PathPrefix("/mcp").Handler(m.WrapHandler("mcp", opts.MCP))
	}

	recovered := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger.Named("http"))),
	)(r)
	return handlers.LoggingHandler(accessLog, recovered)
}
