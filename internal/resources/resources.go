// Package resources implements MCP resource handlers for the questionnaire.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (tgt://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/report"
)

// Resource URIs.
const (
	QuestionsURI  = "tgt://questions"
	TeamReportURI = "tgt://report/team"
	WhitepaperURI = "tgt://whitepaper"
)

// Survey is the part of survey.Service the resources read.
type Survey interface {
	Bank() *assessment.Bank
	Catalog() assessment.Catalog
	TeamReport(ctx context.Context) (report.Report, error)
}

// Handler manages tgt resource endpoints.
type Handler struct {
	survey         Survey
	whitepaperPath string
}

// NewHandler creates a resource Handler. whitepaperPath may be empty, in
// which case the white paper resource is not offered.
func NewHandler(survey Survey, whitepaperPath string) *Handler {
	return &Handler{survey: survey, whitepaperPath: whitepaperPath}
}

// HasWhitepaper reports whether a white paper is configured.
func (h *Handler) HasWhitepaper() bool {
	return h.whitepaperPath != ""
}

// QuestionsResource returns the MCP resource definition for the question bank.
func (h *Handler) QuestionsResource() mcp.Resource {
	return mcp.NewResource(
		QuestionsURI,
		"Temporal Focus Questions",
		mcp.WithResourceDescription("The assessment statements, rating scale, and archetypes"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleQuestions returns the bank and catalog as JSON.
func (h *Handler) HandleQuestions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	payload := struct {
		MinRating     int                    `json:"min_rating"`
		MaxRating     int                    `json:"max_rating"`
		DefaultRating int                    `json:"default_rating"`
		Questions     []assessment.Question  `json:"questions"`
		Archetypes    []assessment.Archetype `json:"archetypes"`
	}{
		MinRating:     assessment.MinRating,
		MaxRating:     assessment.MaxRating,
		DefaultRating: assessment.DefaultRating,
		Questions:     h.survey.Bank().Questions(),
	}
	catalog := h.survey.Catalog()
	for _, c := range assessment.Categories() {
		payload.Archetypes = append(payload.Archetypes, catalog[c])
	}
	return jsonResource(req.Params.URI, payload)
}

// TeamReportResource returns the MCP resource definition for the team report.
func (h *Handler) TeamReportResource() mcp.Resource {
	return mcp.NewResource(
		TeamReportURI,
		"Team Temporal Focus Report",
		mcp.WithResourceDescription("Mean scores and archetype distribution across all results"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTeamReport returns the aggregated report as JSON.
func (h *Handler) HandleTeamReport(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rep, err := h.survey.TeamReport(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, rep)
}

// WhitepaperResource returns the MCP resource definition for the white paper.
func (h *Handler) WhitepaperResource() mcp.Resource {
	return mcp.NewResource(
		WhitepaperURI,
		"Temporal Focus White Paper",
		mcp.WithResourceDescription("Background reading on temporal focus"),
		mcp.WithMIMEType(ContentType(h.whitepaperPath)),
	)
}

// HandleWhitepaper returns the configured file as a base64 blob.
func (h *Handler) HandleWhitepaper(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.whitepaperPath == "" {
		return errorResource(req.Params.URI, "no white paper configured"), nil
	}
	data, err := os.ReadFile(h.whitepaperPath)
	if err != nil {
		return errorResource(req.Params.URI, fmt.Sprintf("reading white paper: %v", err)), nil
	}
	return []mcp.ResourceContents{
		mcp.BlobResourceContents{
			URI:      req.Params.URI,
			MIMEType: ContentType(h.whitepaperPath),
			Blob:     base64.StdEncoding.EncodeToString(data),
		},
	}, nil
}

// ContentType guesses a MIME type from the file extension.
func ContentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
