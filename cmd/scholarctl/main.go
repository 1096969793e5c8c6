// Command scholarctl inspects and edits the reader's articles and
// highlights from the command line. It uses the same database as the API
// server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cryptoscholar/internal/app"
	"cryptoscholar/internal/config"
)

// cli holds the state shared by all subcommands.
type cli struct {
	contentDir string
	dbPath     string
	debug      bool

	app *app.App
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "scholarctl",
		Short: "Crypto Scholar reader administration",
		Long: `scholarctl lists and renders articles and manages stored highlights.

Configuration is read from the environment and .env like the API server;
flags override it.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}

	rootCmd.PersistentFlags().StringVar(&c.contentDir, "content-dir", "", "Content root directory (or set CONTENT_DIR)")
	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite database path (or set DB_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&c.debug, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(
		c.listCmd(),
		c.renderCmd(),
		c.highlightsCmd(),
		c.resolveCmd(),
		c.progressCmd(),
	)
	return rootCmd
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	if c.contentDir != "" {
		_ = os.Setenv("CONTENT_DIR", c.contentDir)
	}
	if c.dbPath != "" {
		_ = os.Setenv("DB_PATH", c.dbPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.debug {
		cfg.LogLevel = "debug"
	}
	// The CLI does not watch files; renders are never cached across runs.
	cfg.WatchContent = false

	slog.SetDefault(cfg.NewLogger(cmd.ErrOrStderr()))

	a, err := app.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to open reader: %w", err)
	}
	c.app = a
	return nil
}

func (c *cli) close(*cobra.Command, []string) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}
