// Package server wires all components and creates the MCP server instance.
//
// This is the composition root: it opens the store, loads the catalog,
// builds the survey service, and injects it into the tools, prompts, and
// resources. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/config"
	"github.com/HendryAvila/tgt/internal/metrics"
	"github.com/HendryAvila/tgt/internal/prompts"
	"github.com/HendryAvila/tgt/internal/resources"
	"github.com/HendryAvila/tgt/internal/results"
	"github.com/HendryAvila/tgt/internal/survey"
	"github.com/HendryAvila/tgt/internal/templates"
	"github.com/HendryAvila/tgt/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App is everything one tgt process serves.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Survey   *survey.Service
	Renderer *templates.EmbedRenderer
	MCP      *server.MCPServer
}

// New resolves every dependency from cfg and registers all tools,
// prompts, and resources.
//
// The returned cleanup function closes the result store and must be
// called on shutdown (typically via defer). It is always non-nil.
func New(cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	bank, catalog, err := assessment.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, noop, fmt.Errorf("loading catalog: %w", err)
	}

	store, err := results.Open(cfg.ResultsOptions())
	if err != nil {
		return nil, noop, fmt.Errorf("opening result store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing result store", zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	m := metrics.MustNew(reg)

	svc, err := survey.New(survey.Options{
		Bank:      bank,
		Catalog:   catalog,
		Store:     store,
		Backend:   cfg.Store.Backend,
		CacheSize: cfg.Cache.Size,
		Metrics:   m,
		Logger:    logger.Named("survey"),
	})
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("creating survey service: %w", err)
	}

	logger.Info("result store ready",
		zap.String("backend", cfg.Store.Backend),
		zap.String("csv_path", cfg.Store.CSVPath),
		zap.String("mode", cfg.Store.Mode),
		zap.Int("questions", bank.Len()))

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  m,
		Survey:   svc,
		Renderer: renderer,
	}
	app.MCP = newMCPServer(svc, renderer, cfg.WhitepaperPath)
	return app, cleanup, nil
}

// newMCPServer registers the tools, prompts, and resources on a fresh
// MCP server.
func newMCPServer(svc *survey.Service, renderer templates.Renderer, whitepaperPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"tgt",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	questionsTool := tools.NewQuestionsTool(svc, renderer)
	s.AddTool(questionsTool.Definition(), questionsTool.Handle)

	submitTool := tools.NewSubmitTool(svc, renderer)
	s.AddTool(submitTool.Definition(), submitTool.Handle)

	historyTool := tools.NewHistoryTool(svc, renderer)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	teamReportTool := tools.NewTeamReportTool(svc, renderer)
	s.AddTool(teamReportTool.Definition(), teamReportTool.Handle)

	exportScoresTool := tools.NewExportScoresTool(svc)
	s.AddTool(exportScoresTool.Definition(), exportScoresTool.Handle)

	exportJournalTool := tools.NewExportJournalTool(svc)
	s.AddTool(exportJournalTool.Definition(), exportJournalTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	reflectPrompt := prompts.NewReflectPrompt()
	s.AddPrompt(reflectPrompt.Definition(), reflectPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(svc, whitepaperPath)
	s.AddResource(resourceHandler.QuestionsResource(), resourceHandler.HandleQuestions)
	s.AddResource(resourceHandler.TeamReportResource(), resourceHandler.HandleTeamReport)
	if resourceHandler.HasWhitepaper() {
		s.AddResource(resourceHandler.WhitepaperResource(), resourceHandler.HandleWhitepaper)
	}

	return s
}

// noop is the cleanup returned when nothing needs closing.
func noop() {}

// serverInstructions tells the host how to run the assessment.
func serverInstructions() string {
	return `You have access to tgt, the Temporal Focus Assessment.

## WHAT IT MEASURES

15 statements, five each for Past, Present, and Future focus, rated from
1 (strongly disagree) to 7 (strongly agree). Each category score is the
sum of its ratings divided by the maximum possible, as a percentage. The
highest category is the dominant focus; ties go to Past, then Present.

| Focus   | Archetype       |
|---------|-----------------|
| Past    | The Nostalgic   |
| Present | The Flow-Seeker |
| Future  | The Visionary   |

## FLOW

1. Ask for the user's name or email. Never submit without it.
2. Call tgt_questions and collect a rating for every statement.
   Do not invent or default ratings the user did not give.
3. Call tgt_submit. The result includes a submission id.
4. Offer tgt_export_scores (CSV of the three scores) and, after a short
   reflection, tgt_export_journal.
5. tgt_history shows a user's past results; tgt_team_report shows the
   group averages and archetype counts.

If tgt_submit reports that the result could not be saved, the scores are
still valid: show them and offer the export.`
}
