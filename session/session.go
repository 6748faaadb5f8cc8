package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"guesswho-client/board"
	"guesswho-client/clienterrors"
	"guesswho-client/interaction"
	"guesswho-client/protocol"
	"guesswho-client/render"
	"guesswho-client/view"
)

const journalTimeout = 5 * time.Second

// Transport is the connection to the game server.
type Transport interface {
	interaction.Emitter
	Inbound() <-chan protocol.Envelope
	Done() <-chan struct{}
}

// Navigator shows the blocking room-full notice and leaves the room.
type Navigator interface {
	Alert(message string)
	Navigate(url string)
}

// Journal records what the session saw and sent. Optional.
type Journal interface {
	RecordSnapshot(ctx context.Context, sessionID uuid.UUID, mode string, rows, cols int, payload json.RawMessage) error
	RecordAction(ctx context.Context, sessionID uuid.UUID, event string, payload json.RawMessage) error
}

// RoomFullError ends a session whose room already has two players.
type RoomFullError struct {
	DestinationURL string
}

func (e *RoomFullError) Error() string {
	return fmt.Sprintf("room is full, redirecting to %q", e.DestinationURL)
}

func (e *RoomFullError) Is(target error) bool {
	return target == clienterrors.ErrRoomFull
}

// Options configures a Session.
type Options struct {
	RoomID   string
	Nickname string
	// HeartbeatInterval of zero disables heartbeats.
	HeartbeatInterval time.Duration
	// Navigator defaults to the view switch.
	Navigator Navigator
	Journal   Journal
}

type request struct {
	run   func() error
	reply chan error
}

// Session owns the event loop. Server pushes, taps and commands are handled
// one at a time, in arrival order, on the goroutine running Run.
type Session struct {
	id         uuid.UUID
	transport  Transport
	view       *view.Switch
	controller *interaction.Controller
	navigator  Navigator
	journal    Journal
	heartbeat  time.Duration

	requests chan request
	stopped  chan struct{}
}

// New creates a Session. store must be the store sw was built on.
func New(transport Transport, store *board.Store, sw *view.Switch, opts Options) *Session {
	s := &Session{
		id:        uuid.New(),
		transport: transport,
		view:      sw,
		navigator: opts.Navigator,
		journal:   opts.Journal,
		heartbeat: opts.HeartbeatInterval,
		requests:  make(chan request),
		stopped:   make(chan struct{}),
	}
	if s.navigator == nil {
		s.navigator = sw
	}
	s.controller = interaction.NewController(store, &journalEmitter{s: s}, opts.RoomID, opts.Nickname)
	return s
}

// ID identifies this session in logs and journal rows.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// View returns the switch whose frames this session publishes.
func (s *Session) View() *view.Switch {
	return s.view
}

// Run joins the room and processes events until ctx is cancelled (nil), the
// connection drops (clienterrors.ErrDisconnected) or the room is full
// (*RoomFullError).
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)

	if err := s.controller.Join(); err != nil {
		return fmt.Errorf("joining room: %w", err)
	}
	slog.Info("session started", "tag", "session", "id", s.id)

	var tick <-chan time.Time
	if s.heartbeat > 0 {
		ticker := time.NewTicker(s.heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("session stopped", "tag", "session", "id", s.id)
			return nil

		case env := <-s.transport.Inbound():
			if err := s.handle(env); err != nil {
				return err
			}

		case <-s.transport.Done():
			return s.drain()

		case req := <-s.requests:
			req.reply <- req.run()

		case <-tick:
			if err := s.controller.Heartbeat(); err != nil {
				slog.Warn("heartbeat failed", "tag", "session", "err", err)
			}
		}
	}
}

// drain handles frames read before the connection dropped.
func (s *Session) drain() error {
	for {
		select {
		case env := <-s.transport.Inbound():
			if err := s.handle(env); err != nil {
				return err
			}
		default:
			return clienterrors.ErrDisconnected
		}
	}
}

func (s *Session) handle(env protocol.Envelope) error {
	switch env.Event {
	case protocol.EventUpdateGame:
		mode, err := s.view.SelectMode(env.Data)
		if err != nil {
			slog.Error("dropping game update", "tag", "session", "err", err)
			return nil
		}
		layout := s.view.Frame().Layout
		slog.Info("game updated", "tag", "session", "mode", mode, "rows", layout.Rows, "cols", layout.Cols)
		s.record(func(ctx context.Context) error {
			return s.journal.RecordSnapshot(ctx, s.id, string(mode), layout.Rows, layout.Cols, env.Data)
		})

	case protocol.EventFullGameError:
		var msg protocol.FullGameErrorMsg
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			slog.Warn("bad full game error payload", "tag", "session", "err", err)
		}
		s.navigator.Alert(view.RoomFullMessage)
		s.navigator.Navigate(msg.DestinationURL)
		return &RoomFullError{DestinationURL: msg.DestinationURL}

	default:
		slog.Debug("ignoring event", "tag", "session", "event", env.Event)
	}
	return nil
}

// submit runs fn on the event loop and waits for its result.
func (s *Session) submit(ctx context.Context, fn func() error) error {
	req := request{run: fn, reply: make(chan error, 1)}
	select {
	case s.requests <- req:
	case <-s.stopped:
		return clienterrors.ErrDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tap handles a tap on a rendered cell of the current frame.
func (s *Session) Tap(ctx context.Context, region render.Region, row, col int) error {
	return s.submit(ctx, func() error {
		return s.controller.Tap(s.view.Frame().Board, region, row, col)
	})
}

// SubmitSettings asks the server for a new board.
func (s *Session) SubmitSettings(ctx context.Context, facepack string, rows, cols int) error {
	return s.submit(ctx, func() error {
		return s.controller.SubmitSettings(facepack, rows, cols)
	})
}

// Restart asks the server to drop the current board.
func (s *Session) Restart(ctx context.Context) error {
	return s.submit(ctx, s.controller.RequestRestart)
}

// record writes to the journal off the event loop.
func (s *Session) record(fn func(ctx context.Context) error) {
	if s.journal == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Warn("journal write failed", "tag", "session", "err", err)
		}
	}()
}

// journalEmitter forwards to the transport and journals what was sent.
type journalEmitter struct {
	s *Session
}

func (e *journalEmitter) Emit(event string, payload any) error {
	if err := e.s.transport.Emit(event, payload); err != nil {
		return err
	}
	if e.s.journal == nil || event == protocol.EventHeartbeat {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	e.s.record(func(ctx context.Context) error {
		return e.s.journal.RecordAction(ctx, e.s.id, event, data)
	})
	return nil
}
