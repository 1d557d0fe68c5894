// ruffday is a terminal reaction game: keep the patient alive by pressing the
// key each task asks for before the clock runs out.
//
// Usage:
//
//	ruffday                  - Play a round (same as "ruffday play")
//	ruffday serve            - Start SSH server for remote play
//	ruffday scores           - Show recorded rounds
//	ruffday reset            - Clear the high score and round history
//	ruffday config           - Print the default configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible task order
//	--db <path>           - Set database path (default: ~/.ruffday/scores.db)
//	--config <path>       - Load a custom config YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--log-file <path>     - Write logs to a file
//	--debug               - Log task transitions
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ruff-day/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogFile    string
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ruffday",
	Short: "Veterinarian's Hospital: Ruff Day - a terminal reaction game",
	Long: `Ruff Day is a reaction game played in the terminal. Each task asks for
one key; press it before the clock runs out. Every success shortens the
clock until you reach the win score.

Available commands:
  play     - Play a round (default)
  serve    - Start SSH server for remote play
  scores   - View recorded rounds
  reset    - Clear the high score and round history
  config   - Print the default configuration

Examples:
  ruffday
  ruffday play --difficulty hard
  ruffday serve --ssh :2222
  ruffday scores --plain`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ruffday/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadGameConfig loads the config file and applies the difficulty preset.
func loadGameConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyDifficultyPreset(&cfg, preset)

	return cfg, cfg.Validate()
}

// fileLogger logs to --log-file, or nowhere when it is unset.
// The returned closer must be called on exit.
func fileLogger() (*log.Logger, func(), error) {
	var w io.Writer = io.Discard
	closer := func() {}

	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "ruffday",
	})
	setLevel(logger)
	return logger, closer, nil
}

func setLevel(logger *log.Logger) {
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
}

// seed returns --seed, or the current time when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
