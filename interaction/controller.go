package interaction

import (
	"fmt"

	"guesswho-client/board"
	"guesswho-client/clienterrors"
	"guesswho-client/protocol"
	"guesswho-client/render"
)

// Emitter sends an event to the server without waiting for a reply.
type Emitter interface {
	Emit(event string, payload any) error
}

// Controller turns taps into outbound events. It keeps no state of its own;
// whether a target has been chosen is read from the store on every tap.
type Controller struct {
	store    *board.Store
	emitter  Emitter
	roomID   string
	nickname string
}

// NewController creates a Controller for roomID. nickname is sent on join and may be empty.
func NewController(store *board.Store, emitter Emitter, roomID, nickname string) *Controller {
	return &Controller{store: store, emitter: emitter, roomID: roomID, nickname: nickname}
}

// Tap is the tap handler for a rendered cell. Cells that are not clickable
// have no handler, so nothing is emitted for them.
func (c *Controller) Tap(tree *render.Tree, region render.Region, row, col int) error {
	if tree == nil {
		return clienterrors.ErrNoBoard
	}
	cell, ok := tree.Cell(region, row, col)
	if !ok || !cell.Clickable {
		return fmt.Errorf("%s (%d,%d): %w", region, row, col, clienterrors.ErrNotInteractive)
	}
	return c.OnCellTap(row, col)
}

// OnCellTap emits "choose target" while no target is set, and "flip card" after.
func (c *Controller) OnCellTap(row, col int) error {
	msg := protocol.CellMsg{RoomID: c.roomID, Row: row, Col: col}
	if !c.store.Read().MyTarget.IsSet() {
		return c.emitter.Emit(protocol.EventChooseTarget, msg)
	}
	return c.emitter.Emit(protocol.EventFlipCard, msg)
}

// SubmitSettings asks the server to deal a new board.
func (c *Controller) SubmitSettings(facepack string, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("rows and cols must be positive, got %dx%d: %w", rows, cols, clienterrors.ErrInvalidSettings)
	}
	return c.emitter.Emit(protocol.EventGameSettings, protocol.SettingsMsg{
		RoomID:   c.roomID,
		Facepack: facepack,
		Rows:     rows,
		Cols:     cols,
	})
}

// RequestRestart asks the server to drop the current board.
func (c *Controller) RequestRestart() error {
	return c.emitter.Emit(protocol.EventRestartGame, protocol.RoomMsg{RoomID: c.roomID})
}

// Join announces this client in its room.
func (c *Controller) Join() error {
	return c.emitter.Emit(protocol.EventJoin, protocol.JoinMsg{GameID: c.roomID, Nickname: c.nickname})
}

// Heartbeat tells the server this client is still here.
func (c *Controller) Heartbeat() error {
	return c.emitter.Emit(protocol.EventHeartbeat, protocol.HeartbeatMsg{})
}
