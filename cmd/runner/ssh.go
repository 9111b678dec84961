package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/platform/tui"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Start the SSH play server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game. The SSH user name is recorded with
saved scores, and all users share the same leaderboard (Tab when no game
is running).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.runner/ssh_host_ed25519

Examples:
  runner ssh                           # Listen on :23234 with auto-generated key
  runner ssh --addr :2222              # Listen on port 2222
  runner ssh --host-key ./my_host_key  # Use specific host key
  runner ssh --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "addr", "", "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
	sshCmd.Flags().StringVar(&flagServerConfig, "server-config", "", "Path to server config (YAML or TOML)")
}

func runSSH(cmd *cobra.Command, args []string) error {
	logger := newLogger("runner-ssh")

	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}
	serverCfg, err := config.LoadServer(flagServerConfig)
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		serverCfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		serverCfg.SSH.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		serverCfg.SSH.IdleTimeout = flagIdleTimeout
	}

	cfg := tui.SSHServerConfig{
		SSH:      serverCfg.SSH,
		Runner:   runnerCfg,
		TickRate: flagFPS,
		Logger:   logger,
	}

	store, err := storage.Open(dbPath(serverCfg))
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	} else {
		defer store.Close()
		cfg.Store = store
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(serverCfg.SSH.Address))
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx)
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
