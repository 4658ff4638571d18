package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/tablescope/internal/actionlog"
	cfgpkg "github.com/KaramelBytes/tablescope/internal/config"
	"github.com/KaramelBytes/tablescope/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	flagDBPath string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "tablescope",
	Short: "Import CSV files into SQLite and explore them",
	Long: `tablescope imports CSV, TSV and XLSX files into a local SQLite database and
shows summary statistics, correlation heatmaps and line charts for the stored tables,
either as one-shot commands or in an interactive terminal view (tablescope ui).`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tablescope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "echo action log entries to stderr")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database file (overrides config db_path)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands report a missing config when they need it
		cfg = nil
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
}

// requireConfig returns the loaded configuration or an error.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	return cfg, nil
}

// session is an opened workspace plus the sinks its log writes to.
type session struct {
	ws *workspace.Workspace
	// fileSink mirrors entries into log_file; nil when unset.
	fileSink actionlog.Sink
	closers  []func() error
}

func (s *session) Close() {
	for _, c := range s.closers {
		_ = c()
	}
}

// openSession opens the workspace for c. When console is true and --debug is
// set, log entries are echoed to stderr.
func openSession(c *cfgpkg.Global, console bool) (*session, error) {
	s := &session{}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.fileSink = actionlog.RecordSink(f)
		s.closers = append(s.closers, f.Close)
	}
	var stderrSink actionlog.Sink
	if console && debug {
		stderrSink = actionlog.WriterSink(os.Stderr)
	}
	log := actionlog.New(actionlog.WithSink(actionlog.Multi(s.fileSink, stderrSink)))
	ws, err := workspace.Open(c, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.ws = ws
	return s, nil
}

// withSession loads config, opens a console session and runs fn.
func withSession(fn func(s *session) error) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	s, err := openSession(c, true)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
