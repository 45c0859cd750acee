package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/tgt/internal/httpapi"
	"github.com/HendryAvila/tgt/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio) or the HTTP API (http)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().String("transport", "", "stdio or http")
	cmd.Flags().String("addr", "", "HTTP listen address (http transport)")
	cmd.Flags().String("whitepaper", "", "file served as the white paper download")
	_ = c.v.BindPFlag("mcp.transport", cmd.Flags().Lookup("transport"))
	_ = c.v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	_ = c.v.BindPFlag("whitepaper_path", cmd.Flags().Lookup("whitepaper"))
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	app, cleanup, err := c.app()
	defer cleanup()
	if err != nil {
		return err
	}

	switch c.cfg.MCP.Transport {
	case "http":
		return serveHTTP(ctx, app)
	default:
		return serveStdio(ctx, app)
	}
}

// serveStdio speaks MCP on stdin/stdout. Logs must stay on stderr.
func serveStdio(ctx context.Context, app *server.App) error {
	app.Logger.Info("serving MCP on stdio", zap.String("version", server.Version))

	stdio := mcpserver.NewStdioServer(app.MCP)
	stdio.SetErrorLogger(zap.NewStdLog(app.Logger.Named("mcp")))
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// serveHTTP runs the JSON API with the streamable MCP transport at /mcp.
func serveHTTP(ctx context.Context, app *server.App) error {
	h := httpapi.NewRouter(httpapi.Options{
		Survey:         app.Survey,
		Metrics:        app.Metrics,
		Logger:         app.Logger.Named("http"),
		WhitepaperPath: app.Config.WhitepaperPath,
		MCP:            mcpserver.NewStreamableHTTPServer(app.MCP),
	})
	return httpapi.ListenAndServe(ctx, app.Config.HTTP.Addr, h, app.Logger)
}
