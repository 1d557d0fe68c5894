package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ruff-day/internal/audio"
	"github.com/vovakirdan/ruff-day/internal/config"
	"github.com/vovakirdan/ruff-day/internal/core"
	"github.com/vovakirdan/ruff-day/internal/game"
	"github.com/vovakirdan/ruff-day/internal/platform/tui"
	"github.com/vovakirdan/ruff-day/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round",
	Long: `Start the title screen. Press the thump key to begin.

Controls:
  C          - CPR
  T          - Precordial thump (also starts a round)
  P          - Check the pulse
  Alt+key    - Blocked press (does not count)
  +/-        - Raise or lower the win score
  R          - Back to the title screen
  Ctrl+R     - Reset the high score
  Q/Esc      - Quit

Difficulty options:
  easy   - Longer clock, slower ramp
  normal - Config file values
  hard   - Shorter clock, faster ramp
  fixed  - The clock never shrinks

Examples:
  ruffday play
  ruffday play --difficulty easy
  ruffday play --config ./my-ruffday.yaml --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

// runTUI runs the interactive round. Swapped out in tests.
var runTUI = tui.Run

func runPlay(_ *cobra.Command, _ []string) {
	// play returns before exiting so its deferred cleanup runs
	if err := play(); err != nil {
		fatalf("%v", err)
	}
}

func play() error {
	logger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open score storage
	opts := tui.ModelOptions{GameID: storage.GameID, Logger: logger}
	var prefs game.Prefs
	store, err := storage.OpenWithLogger(flagDBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// High score lives for this run only
		prefs = storage.NewMemoryPrefs()
	} else {
		defer store.Close()
		prefs = store
		opts.Recorder = store
	}

	if player := startAudio(&cfg, logger); player != nil {
		defer player.Cleanup()
		opts.Player = player
	}

	round, err := game.New(game.Options{
		Config: cfg,
		Prefs:  prefs,
		Seed:   seed(),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	opts.Round = round
	opts.Config = cfg
	opts.Runtime = core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	if err := runTUI(opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// startAudio opens the speaker. On failure it warns and turns clips off so
// the round runs silent.
func startAudio(cfg *config.Config, logger *log.Logger) *audio.Player {
	if !cfg.Audio.Enabled {
		return nil
	}

	bank, err := audio.NewBank(cfg.Audio.Clips)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load sounds: %v\n", err)
		cfg.Audio.Enabled = false
		return nil
	}

	player := audio.NewPlayer(bank, logger)
	if err := player.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", err)
		cfg.Audio.Enabled = false
		return nil
	}
	return player
}
