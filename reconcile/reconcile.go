package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"guesswho-client/board"
	"guesswho-client/clienterrors"
	"guesswho-client/protocol"
)

// Mode is the presentation a payload calls for.
type Mode string

const (
	ModeSettings Mode = "settings"
	ModeBoard    Mode = "board"
)

// Layout holds the grid dimensions the renderer lays cells out with.
type Layout struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// LayoutSink receives layout parameters. The reconciler is its only writer.
type LayoutSink interface {
	SetLayout(Layout)
}

// Result is the outcome of a successful reconciliation.
// State and Layout are zero when Mode is ModeSettings.
type Result struct {
	Mode   Mode
	State  *board.State
	Layout Layout
}

// MalformedPayloadError reports a non-empty payload that cannot become a board.
type MalformedPayloadError struct {
	Reason string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed game payload: %s: %v", e.Reason, e.Err)
	}
	return "malformed game payload: " + e.Reason
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// Is lets callers match with errors.Is(err, clienterrors.ErrMalformedPayload).
func (e *MalformedPayloadError) Is(target error) bool {
	return target == clienterrors.ErrMalformedPayload
}

func malformed(reason string, err error) *MalformedPayloadError {
	return &MalformedPayloadError{Reason: reason, Err: err}
}

// Reconciler turns "update game" payloads into the board store.
type Reconciler struct {
	store  *board.Store
	layout LayoutSink
}

// New creates a Reconciler writing to store. layout may be nil.
func New(store *board.Store, layout LayoutSink) *Reconciler {
	return &Reconciler{store: store, layout: layout}
}

// Reconcile applies raw to the store.
//
// An empty payload returns ModeSettings and leaves the store untouched. A bad
// payload returns a *MalformedPayloadError and also leaves the store and
// layout untouched, so the last good board persists.
func (r *Reconciler) Reconcile(raw json.RawMessage) (Result, error) {
	payload, empty, err := Parse(raw)
	if err != nil {
		return Result{}, err
	}
	if empty {
		return Result{Mode: ModeSettings}, nil
	}

	state, err := Build(payload)
	if err != nil {
		return Result{}, err
	}

	layout := Layout{Rows: state.MyGrid.Rows(), Cols: state.MyGrid.Cols()}
	if r.layout != nil {
		r.layout.SetLayout(layout)
	}
	r.store.Replace(state)

	return Result{Mode: ModeBoard, State: state, Layout: layout}, nil
}

// Parse decodes raw. empty is true when raw carries no game: absent, null,
// or an object without myBoard or theirBoard.
func Parse(raw json.RawMessage) (payload *protocol.GamePayload, empty bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, true, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return nil, false, malformed("payload is not an object", err)
	}
	_, hasMine := keys["myBoard"]
	_, hasTheirs := keys["theirBoard"]
	if !hasMine && !hasTheirs {
		return nil, true, nil
	}

	payload = &protocol.GamePayload{}
	if err := json.Unmarshal(trimmed, payload); err != nil {
		return nil, false, malformed("decoding boards", err)
	}
	return payload, false, nil
}

// Build converts a decoded payload into a fresh State.
func Build(p *protocol.GamePayload) (*board.State, error) {
	if p == nil || p.MyBoard == nil {
		return nil, malformed("myBoard is missing", nil)
	}
	if p.TheirBoard == nil {
		return nil, malformed("theirBoard is missing", nil)
	}

	mine := toGrid(p.MyBoard.Cards)
	if mine.Rows() == 0 {
		return nil, malformed("myBoard has no rows", nil)
	}
	if !mine.Rectangular() {
		return nil, malformed("myBoard rows are empty or ragged", nil)
	}

	theirs := toGrid(p.TheirBoard.Cards)
	if !theirs.Rectangular() {
		return nil, malformed("theirBoard rows are empty or ragged", nil)
	}
	if theirs.Rows() != mine.Rows() || theirs.Cols() != mine.Cols() {
		return nil, malformed(fmt.Sprintf("grid sizes differ: mine %dx%d, theirs %dx%d",
			mine.Rows(), mine.Cols(), theirs.Rows(), theirs.Cols()), nil)
	}

	target := board.UnsetTarget()
	if p.MyBoard.Target != nil {
		target = board.TargetWithFace(*p.MyBoard.Target)
	}

	return &board.State{
		MyGrid:           mine,
		MyTarget:         target,
		TheirGrid:        theirs,
		TheirTargetIsSet: p.TheirBoard.HasTarget,
	}, nil
}

func toGrid(rows [][]protocol.CardMsg) board.Grid {
	grid := make(board.Grid, len(rows))
	for r, row := range rows {
		grid[r] = make([]board.Card, len(row))
		for c, card := range row {
			grid[r][c] = board.Card{Flipped: card.Flipped, Face: card.Face}
		}
	}
	return grid
}
