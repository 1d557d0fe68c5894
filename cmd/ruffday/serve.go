package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ruff-day/internal/platform/tui"
	"github.com/vovakirdan/ruff-day/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Ruff Day SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection plays its own round. All sessions share the server's
high score and round history. Sessions run without sound.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.ruffday/host_key

Examples:
  ruffday serve                           # Listen on :23235 with auto-generated key
  ruffday serve --ssh :2222               # Listen on port 2222
  ruffday serve --host-key ./my_host_key  # Use specific host key
  ruffday serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ruffday-ssh",
	})
	setLevel(logger)

	gameCfg, err := loadGameConfig()
	if err != nil {
		fatalf("%v", err)
	}
	// Sound plays on the host, never on the client
	gameCfg.Audio.Enabled = false

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Game = gameCfg
	cfg.GameID = storage.GameID

	var sessions tui.SessionStore
	closeStore := func() {}
	store, err := storage.OpenWithLogger(flagDBPath, logger)
	if err != nil {
		logger.Warn("could not open scores database, high scores will not persist", "err", err)
	} else {
		closeStore = func() { store.Close() }
		sessions = store
	}
	// fatalf exits without running defers
	defer closeStore()

	server, err := tui.NewSSHServer(cfg, sessions, logger)
	if err != nil {
		closeStore()
		fatalf("creating server: %v", err)
	}

	fmt.Printf("Starting Ruff Day SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				logger.Debug("termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// SSH server.
	g.Add(
		server.ListenAndServe,
		func(_ error) {
			if err := server.Shutdown(); err != nil {
				logger.Error("shutdown error", "err", err)
			}
		},
	)

	if err := g.Run(); err != nil {
		closeStore()
		fatalf("server: %v", err)
	}
	logger.Info("server stopped")
}

// port returns the port part of a listen address.
func port(addr string) string {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return p
}
