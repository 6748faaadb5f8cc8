package view

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"guesswho-client/board"
	"guesswho-client/reconcile"
	"guesswho-client/render"
)

// Mode is the region currently presented.
type Mode string

const (
	ModeLoading  Mode = "loading"
	ModeSettings Mode = "settings"
	ModeBoard    Mode = "board"
)

// RoomFullMessage is the blocking notice shown before leaving a full room.
const RoomFullMessage = "This game is full. Please try again later or try joining a different room. You'll be taken back to the home page now."

// Frame is everything the external renderer needs at one point in time.
// Frames are immutable once published.
type Frame struct {
	Mode     Mode             `json:"mode"`
	Loading  bool             `json:"loading"`
	Layout   reconcile.Layout `json:"layout"`
	Board    *render.Tree     `json:"board,omitempty"`
	Notice   string           `json:"notice,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

// Switch decides between the settings menu and the game board for each
// server push, and publishes the result as a Frame.
type Switch struct {
	store      *board.Store
	reconciler *reconcile.Reconciler
	projector  render.Projector

	// layout is written by the reconciler before the board is projected.
	layout reconcile.Layout

	frame atomic.Pointer[Frame]
}

// NewSwitch creates a Switch over store. The first frame shows only the loading indicator.
func NewSwitch(store *board.Store, projector render.Projector) *Switch {
	s := &Switch{store: store, projector: projector}
	s.reconciler = reconcile.New(store, s)
	s.frame.Store(&Frame{Mode: ModeLoading, Loading: true})
	return s
}

// SetLayout implements reconcile.LayoutSink.
func (s *Switch) SetLayout(l reconcile.Layout) {
	s.layout = l
}

// Frame returns the current frame.
func (s *Switch) Frame() *Frame {
	return s.frame.Load()
}

// SelectMode reconciles raw and publishes the matching frame. If reconciliation
// fails the current frame stays as it is and the error is returned.
func (s *Switch) SelectMode(raw json.RawMessage) (Mode, error) {
	res, err := s.reconciler.Reconcile(raw)
	if err != nil {
		return s.Frame().Mode, err
	}

	prev := s.Frame()
	next := &Frame{Notice: prev.Notice, Redirect: prev.Redirect}
	switch res.Mode {
	case reconcile.ModeSettings:
		slog.Debug("showing settings menu", "tag", "view")
		next.Mode = ModeSettings
	case reconcile.ModeBoard:
		slog.Debug("showing game board", "tag", "view", "rows", s.layout.Rows, "cols", s.layout.Cols)
		next.Mode = ModeBoard
		next.Layout = s.layout
		next.Board = s.projector.Project(s.store.Read())
	}
	next.Loading = false
	s.frame.Store(next)
	return next.Mode, nil
}

// Alert records a blocking notice for the user.
func (s *Switch) Alert(message string) {
	prev := s.Frame()
	next := *prev
	next.Notice = message
	s.frame.Store(&next)
}

// Navigate records where the renderer must send the user next.
func (s *Switch) Navigate(url string) {
	prev := s.Frame()
	next := *prev
	next.Redirect = url
	s.frame.Store(&next)
}
