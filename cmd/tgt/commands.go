package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/templates"
)

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// answersFile is the on-disk shape accepted by "submit --answers". JSON
// files parse too, since YAML is a superset.
//
//	user_id: alice
//	responses: {P1: 4, P2: 6, ...}
type answersFile struct {
	UserID    string         `yaml:"user_id"`
	Responses map[string]int `yaml:"responses"`
}

func newQuestionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the assessment statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := c.app()
			defer cleanup()
			if err != nil {
				return err
			}
			out, err := app.Renderer.Render(templates.Questions, templates.NewQuestionsData(app.Survey.Bank()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newSubmitCmd(c *cli) *cobra.Command {
	var (
		userID      string
		answersPath string
		answers     map[string]int
		fillDefault bool
		exportPath  string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Score one set of answers and store the result",
		Long: `Score one set of answers and store the result.

Answers come from --answers (YAML or JSON) and/or repeated --answer ID=N
flags; flags win. Every statement must be rated 1-7 unless --fill-default
rates the missing ones 4.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs := assessment.ResponseSet{}
			if answersPath != "" {
				file, err := readAnswersFile(answersPath)
				if err != nil {
					return err
				}
				for id, v := range file.Responses {
					rs[questionID(id)] = v
				}
				if userID == "" {
					userID = file.UserID
				}
			}
			for id, v := range answers {
				rs[questionID(id)] = v
			}

			app, cleanup, err := c.app()
			defer cleanup()
			if err != nil {
				return err
			}
			if fillDefault {
				for _, q := range app.Survey.Bank().Questions() {
					if _, ok := rs[q.ID]; !ok {
						rs[q.ID] = assessment.DefaultRating
					}
				}
			}

			outcome, err := app.Survey.Submit(cmd.Context(), userID, rs)
			if err != nil {
				return err
			}

			text, err := app.Renderer.Render(templates.Result, templates.NewResultData(
				assessment.Submitted{Submission: outcome.Submission}, outcome.SaveErr))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if exportPath != "" {
				artifact, err := app.Survey.ExportScores(outcome.Submission.ID)
				if err != nil {
					return err
				}
				if err := os.WriteFile(exportPath, artifact.Data, 0o644); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Scores written to %s\n", exportPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "respondent name or email (required)")
	cmd.Flags().StringVarP(&answersPath, "answers", "f", "", "YAML or JSON answers file")
	cmd.Flags().StringToIntVar(&answers, "answer", nil, "one rating as ID=N, repeatable")
	cmd.Flags().BoolVar(&fillDefault, "fill-default", false, "rate unanswered statements 4")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write the score CSV to this file")
	return cmd
}

// questionID folds a user-typed key to the bank's id form, so "p1" and
// " P1 " both rate P1 whether they come from a file or a flag.
func questionID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func readAnswersFile(path string) (answersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return answersFile{}, fmt.Errorf("reading answers: %w", err)
	}
	var file answersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return answersFile{}, fmt.Errorf("parsing answers %s: %w", path, err)
	}
	return file, nil
}

func newHistoryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history USER",
		Short: "Show a user's past results, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := c.app()
			defer cleanup()
			if err != nil {
				return err
			}
			recs, err := app.Survey.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := app.Renderer.Render(templates.History,
				templates.NewHistoryData(assessment.NormalizeUserID(args[0]), recs, timeNow()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newReportCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show team means and archetype distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := c.app()
			defer cleanup()
			if err != nil {
				return err
			}
			rep, err := app.Survey.TeamReport(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			out, err := app.Renderer.Render(templates.TeamReport, templates.NewTeamReportData(rep))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of markdown")
	return cmd
}

func newJournalCmd(c *cli) *cobra.Command {
	var (
		userID  string
		text    string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write a reflection CSV against your latest result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(text) == "" {
				return errors.New("--text is required")
			}
			app, cleanup, err := c.app()
			defer cleanup()
			if err != nil {
				return err
			}
			artifact, err := app.Survey.JournalLatest(cmd.Context(), userID, text)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = artifact.Filename
			}
			if err := os.WriteFile(outPath, artifact.Data, 0o644); err != nil {
				return fmt.Errorf("writing journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Journal written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "respondent name or email (required)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "reflection text (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <user>_TGT_Journal.csv)")
	return cmd
}
