package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AdoyoClifford/how-to-say-NO/internal/api"
	"github.com/AdoyoClifford/how-to-say-NO/internal/cache"
	"github.com/AdoyoClifford/how-to-say-NO/internal/config"
	"github.com/AdoyoClifford/how-to-say-NO/internal/reason"
	"github.com/AdoyoClifford/how-to-say-NO/internal/tui"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "sayno",
	Short: "Reasons to say no, offline-first",
	Long: `sayno shows you a reason to say no, fetched from a No-as-a-Service
endpoint. The last reason is cached locally, so you always have one on hand
even without a connection.`,
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write debug logs to the state dir")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sayno %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// newLogger returns the app logger. The TUI owns the terminal, so logs go to
// a file under the xdg state dir when --debug is set and nowhere otherwise.
func newLogger() *log.Logger {
	if !flagDebug {
		return log.New(io.Discard)
	}
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard)
	}
	logger := log.New(f)
	logger.SetLevel(log.DebugLevel)
	return logger
}

// newService wires the retrieval pipeline from config. The caller owns the
// returned store and must Close it.
func newService(cfg *config.Config, logger *log.Logger) (*reason.Service, *cache.Store, error) {
	store, err := cache.Open(config.CachePath(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}

	client := api.New(cfg.BaseURL, cfg.ConnectTimeoutDuration(), cfg.ReadTimeoutDuration(), logger)
	svc := reason.NewService(reason.NewRepository(store, client))
	return svc, store, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger()
	svc, store, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return tui.Run(svc)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
