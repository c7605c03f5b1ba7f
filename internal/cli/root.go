// Package cli implements the command-line interface for rubikscube.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube"
	"github.com/SeamusWaldron/rubikscube/internal/config"
	"github.com/SeamusWaldron/rubikscube/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath     string
	configPath string
	verbose    bool

	// Set up before every command runs.
	logger   *log.Logger
	cfgFile  *config.File
	settings config.Settings
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "rubikscube",
	Short: "Rubik's cube reinforcement learning environment",
	Long: `rubikscube - a fast cubie-level Rubik's cube simulator for reinforcement
learning.

Benchmark the turn/observe/solved hot path, roll out random or Lua-scripted
policies, play a scrambled cube in the terminal, or serve environments to
remote agents over websockets.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.rubikscube/rubikscube.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.rubikscube/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Prefix:          "rubikscube",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	f, err := config.Open(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfgFile = f
	settings = f.Settings()
	logger.Debug("config loaded", "path", path)
	return nil
}

// getDBPath returns the database path from flag, config or default.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if settings.DBPath != "" {
		return settings.DBPath, nil
	}
	return storage.DefaultDBPath()
}

func openDB() (*storage.DB, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", "path", path)
	return db, nil
}

// resolveMetric prefers the --metric flag, then the config file, then the
// half-turn metric.
func resolveMetric(cmd *cobra.Command, flagValue string) (rubikscube.MetricKind, error) {
	name := "half_turn"
	switch {
	case cmd.Flags().Changed("metric"):
		name = flagValue
	case settings.Metric != "":
		name = settings.Metric
	}
	return rubikscube.ParseMetricKind(name)
}

// resolveScramble prefers the --scramble flag, then the config file, then
// def.
func resolveScramble(cmd *cobra.Command, flagValue, def int) int {
	switch {
	case cmd.Flags().Changed("scramble"):
		return flagValue
	case settings.ScrambleMoves > 0:
		return settings.ScrambleMoves
	default:
		return def
	}
}

// resolveSeed returns the seed from --seed or the config file. ok is false
// when neither sets one.
func resolveSeed(cmd *cobra.Command, flagValue uint64) (seed uint64, ok bool) {
	switch {
	case cmd.Flags().Changed("seed"):
		return flagValue, true
	case settings.Seed != nil:
		return *settings.Seed, true
	default:
		return 0, false
	}
}

// seedPtr stores seed bit for bit in a signed column; seedString reads it
// back.
func seedPtr(seed uint64, ok bool) *int64 {
	if !ok {
		return nil
	}
	v := int64(seed)
	return &v
}

func seedString(stored int64) string {
	return strconv.FormatUint(uint64(stored), 10)
}
