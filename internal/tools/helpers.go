// Package tools implements MCP tool handlers for the questionnaire.
//
// Each tool is a struct holding its dependencies, with Definition()
// returning the mcp.Tool schema and Handle() processing a call. User
// mistakes come back as tool error results; only infrastructure failures
// are returned as Go errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/export"
	"github.com/HendryAvila/tgt/internal/report"
	"github.com/HendryAvila/tgt/internal/results"
	"github.com/HendryAvila/tgt/internal/survey"
)

// Survey is the part of survey.Service the tools depend on.
type Survey interface {
	Bank() *assessment.Bank
	Submit(ctx context.Context, userID string, rs assessment.ResponseSet) (survey.Outcome, error)
	History(ctx context.Context, userID string) ([]results.Record, error)
	TeamReport(ctx context.Context) (report.Report, error)
	ExportScores(id string) (export.Artifact, error)
	Journal(id, text string) (export.Artifact, error)
}

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// parseResponses collects answers from the per-question number arguments
// and the optional "responses" string. Per-question arguments win.
func parseResponses(req mcp.CallToolRequest, bank *assessment.Bank) (assessment.ResponseSet, error) {
	rs := assessment.ResponseSet{}

	if raw := strings.TrimSpace(req.GetString("responses", "")); raw != "" {
		parsed, err := parseResponseString(raw)
		if err != nil {
			return nil, err
		}
		for id, v := range parsed {
			rs[id] = v
		}
	}

	args := req.GetArguments()
	for _, q := range bank.Questions() {
		v, ok := args[q.ID]
		if !ok {
			continue
		}
		n, err := toRating(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.ID, err)
		}
		rs[q.ID] = n
	}
	return rs, nil
}

// parseResponseString accepts a JSON object ({"P1": 4, ...}) or a list of
// ID=value pairs separated by commas, semicolons, or whitespace.
func parseResponseString(raw string) (assessment.ResponseSet, error) {
	rs := assessment.ResponseSet{}

	if strings.HasPrefix(raw, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, fmt.Errorf("responses: invalid JSON: %w", err)
		}
		for id, v := range obj {
			n, err := toRating(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
			rs[strings.TrimSpace(id)] = n
		}
		return rs, nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	for _, f := range fields {
		id, val, ok := strings.Cut(f, "=")
		if !ok {
			id, val, ok = strings.Cut(f, ":")
		}
		if !ok {
			return nil, fmt.Errorf("responses: %q is not ID=value", f)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", id, val)
		}
		rs[strings.TrimSpace(id)] = n
	}
	return rs, nil
}

// toRating converts a JSON value to an integer rating. JSON numbers
// arrive as float64; fractional values are rejected, not rounded.
func toRating(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("rating %v is not a whole number", n)
		}
		return int(n), nil
	case int:
		return n, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported rating type %T", v)
	}
}

// formatArtifact renders an export as a markdown code block with its
// suggested filename.
func formatArtifact(title string, a export.Artifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "**Filename:** `%s`\n\n", a.Filename)
	b.WriteString("```csv\n")
	b.Write(a.Data)
	b.WriteString("```\n")
	return b.String()
}
