// tgt: Temporal Focus Assessment
//
// A 15-statement questionnaire that scores how much a respondent dwells on
// the past, the present, and the future, assigns an archetype, and keeps a
// shared history for team reporting. Served over MCP, HTTP, and this CLI.
//
// Usage:
//
//	tgt serve                     # MCP server on stdio
//	tgt serve --transport http    # HTTP API plus MCP at /mcp
//	tgt submit --user alice --answers answers.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HendryAvila/tgt/internal/config"
	"github.com/HendryAvila/tgt/internal/logging"
	"github.com/HendryAvila/tgt/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand.
type cli struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:           "tgt",
		Short:         "Temporal Focus Assessment",
		Long:          usage(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ./tgt.yaml or $HOME/.tgt/tgt.yaml)")
	flags.String("data-dir", "", "directory holding the result store")
	flags.String("backend", "", "result store backend: csv or sqlite")
	flags.String("store-mode", "", "csv append mode: locked or legacy")
	flags.String("catalog", "", "YAML file overriding questions or archetypes")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log encoding: json or console")
	_ = c.v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = c.v.BindPFlag("store.backend", flags.Lookup("backend"))
	_ = c.v.BindPFlag("store.mode", flags.Lookup("store-mode"))
	_ = c.v.BindPFlag("catalog_path", flags.Lookup("catalog"))
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newServeCmd(c),
		newQuestionsCmd(c),
		newSubmitCmd(c),
		newHistoryCmd(c),
		newReportCmd(c),
		newJournalCmd(c),
		newVersionCmd(),
	)
	return root
}

// init resolves configuration and the logger once per invocation.
func (c *cli) init() error {
	cfg, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

// app builds the composition root for commands that touch the store.
func (c *cli) app() (*server.App, func(), error) {
	app, cleanup, err := server.New(c.cfg, c.logger)
	if err != nil {
		return nil, cleanup, fmt.Errorf("creating app: %w", err)
	}
	return app, cleanup, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// No config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tgt v%s\n", server.Version)
		},
	}
}

func usage() string {
	return fmt.Sprintf(`tgt v%s: Temporal Focus Assessment

Rates 15 statements from 1 (strongly disagree) to 7 (strongly agree),
scores Past, Present, and Future focus, and names your archetype.

Configuration:
  Settings come from ./tgt.yaml or $HOME/.tgt/tgt.yaml, TGT_* environment
  variables (e.g. TGT_STORE_BACKEND=sqlite), and flags, in that order.

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "tgt": {
        "command": "tgt",
        "args": ["serve"]
      }
    }
  }
`, server.Version)
}
