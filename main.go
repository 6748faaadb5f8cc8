package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"guesswho-client/api"
	"guesswho-client/auth"
	"guesswho-client/board"
	"guesswho-client/clienterrors"
	"guesswho-client/config"
	"guesswho-client/loghandler"
	"guesswho-client/render"
	"guesswho-client/session"
	"guesswho-client/storage"
	"guesswho-client/view"
	"guesswho-client/ws"
)

// client is one connected game client and everything it owns.
type client struct {
	conn    *ws.Conn
	view    *view.Switch
	session *session.Session
	journal *storage.Store
}

func (c *client) Close() {
	c.conn.Close()
	c.journal.Close()
}

// connect resolves the identity, opens the journal and dials the server.
func connect(ctx context.Context, cfg *config.Config) (*client, error) {
	identity, err := auth.ResolveIdentity(cfg.AuthBaseURL, cfg.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("resolving identity: %w", err)
	}
	nickname := cfg.Nickname
	if nickname == "" {
		nickname = identity.Name
	}

	journal, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Warn("journal disabled", "tag", "main", "err", err)
		journal = nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout())
	defer cancel()
	conn, err := ws.Dial(dialCtx, cfg.ServerURL, identity.Header())
	if err != nil {
		journal.Close()
		return nil, err
	}

	store := board.NewStore()
	sw := view.NewSwitch(store, render.Projector{FacelessImage: cfg.FacelessImageURL})
	opts := session.Options{
		RoomID:            cfg.RoomID,
		Nickname:          nickname,
		HeartbeatInterval: cfg.HeartbeatInterval(),
	}
	if journal != nil {
		opts.Journal = journal
	}
	return &client{
		conn:    conn,
		view:    sw,
		session: session.New(conn, store, sw, opts),
		journal: journal,
	}, nil
}

func main() {
	os.Exit(run())
}

// run returns the process exit code.
func run() int {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found; using environment variables.", "tag", "main")
	}

	cfg := config.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, cfg.Level())))

	if cfg.RoomID == "" {
		slog.Error("ROOM_ID is not set", "tag", "main")
		return 2
	}
	if cfg.AuthToken == "" {
		slog.Info("Auth: no AUTH_TOKEN, connecting anonymously", "tag", "main")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := connect(ctx, cfg)
	if err != nil {
		slog.Error("could not connect", "tag", "main", "err", err)
		return 1
	}
	defer c.Close()

	var srv *http.Server
	if cfg.BridgePort > 0 {
		srv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.BridgePort),
			Handler:           api.NewHandler(c.session, c.view).Router(),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		go func() {
			slog.Info("bridge listening", "tag", "main", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("bridge stopped", "tag", "main", "err", err)
			}
		}()
	}

	slog.Info("joining room", "tag", "main", "room", cfg.RoomID, "server", cfg.ServerURL, "session", c.session.ID())
	runErr := c.session.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		srv.Shutdown(shutdownCtx)
		cancel()
	}

	var full *session.RoomFullError
	switch {
	case runErr == nil:
		slog.Info("bye", "tag", "main")
		return 0
	case errors.As(runErr, &full):
		fmt.Fprintln(os.Stderr, view.RoomFullMessage)
		if full.DestinationURL != "" {
			fmt.Fprintln(os.Stderr, full.DestinationURL)
		}
		return 3
	case errors.Is(runErr, clienterrors.ErrDisconnected):
		slog.Error("connection to server lost", "tag", "main")
		return 1
	default:
		slog.Error("session failed", "tag", "main", "err", runErr)
		return 1
	}
}
