package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/subway-runner/internal/api"
	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/platform/tui"
	"github.com/vovakirdan/subway-runner/internal/registry"
	"github.com/vovakirdan/subway-runner/internal/scores"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

var (
	flagServerConfig string
	flagHTTPAddr     string
	flagWithSSH      bool
	flagFormat       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and WebSocket play server",
	Long: `Start the score API and the live play endpoint.

Endpoints:
  POST   /api/scores/submit
  GET    /api/scores/leaderboard?limit=&offset=
  GET    /api/scores/leaderboard/full?limit=&offset=
  GET    /api/scores/personal-best/{player_name}
  DELETE /api/scores/scores/{score_id}
  POST   /api/game/start-session
  PUT    /api/game/update-session/{session_id}
  POST   /api/game/end-session/{session_id}?final_score=
  GET    /api/game/stats
  GET    /api/game/health
  GET    /api/game/schema
  GET    /ws/play?seed=&format=json|msgpack&name=&submit=true

Examples:
  runner serve                                   # Listen on :8000 with ~/.runner/scores.db
  runner serve --addr :9000 --format msgpack     # Default WebSocket frames to msgpack
  runner serve --db postgres://user:pw@db/runner # Use PostgreSQL
  runner serve --with-ssh                        # Also start the SSH play server`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServerConfig, "server-config", "", "Path to server config (YAML or TOML)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "HTTP listen address (default from server config)")
	serveCmd.Flags().BoolVar(&flagWithSSH, "with-ssh", false, "Also run the SSH play server")
	serveCmd.Flags().StringVar(&flagFormat, "format", "", "Default WebSocket snapshot format")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger("runner-http")

	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}
	serverCfg, err := config.LoadServer(flagServerConfig)
	if err != nil {
		return err
	}
	if flagHTTPAddr != "" {
		serverCfg.HTTP.Address = flagHTTPAddr
	}
	if flagFormat != "" {
		serverCfg.WebSocket.Format = flagFormat
	}
	if cmd.Flags().Changed("fps") {
		serverCfg.WebSocket.TickRate = flagFPS
	}
	if !registry.Exists(serverCfg.WebSocket.Format) {
		return errUnknownFormat(serverCfg.WebSocket.Format)
	}

	store, err := storage.Open(dbPath(serverCfg))
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("database ready", "dialect", store.Dialect())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := scores.NewService(store, serverCfg.Scores)
	server := api.NewServer(svc, api.Config{
		Server: serverCfg,
		Runner: runnerCfg,
		Logger: logger,
	})

	// Build everything that can fail before any server goroutine starts
	servers := []listener{server}
	if flagWithSSH {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			SSH:      serverCfg.SSH,
			Runner:   runnerCfg,
			TickRate: flagFPS,
			Store:    store,
			Logger:   newLogger("runner-ssh"),
		})
		if err != nil {
			return err
		}
		servers = append(servers, sshServer)
	}

	return serveAll(ctx, servers...)
}

type listener interface {
	ListenAndServe(ctx context.Context) error
}

// serveAll runs every server until ctx is cancelled or one of them fails,
// and returns only after all of them have stopped.
func serveAll(ctx context.Context, servers ...listener) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			return srv.ListenAndServe(ctx)
		})
	}
	return g.Wait()
}
