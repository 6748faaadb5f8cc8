package board

// Card is a single card as seen by this client.
// An empty Face means the client does not know the card's identity.
type Card struct {
	Flipped bool
	Face    string
}

// HasFace reports whether the card's identity is disclosed to this client.
func (c Card) HasFace() bool {
	return c.Face != ""
}

// Grid is a rectangular arrangement of cards, indexed [row][col].
type Grid [][]Card

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns, taken from the first row.
// An empty grid has zero columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the card at (row, col) and whether the position exists.
func (g Grid) At(row, col int) (Card, bool) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Card{}, false
	}
	return g[row][col], true
}

// Rectangular reports whether every row has the same, non-zero length.
func (g Grid) Rectangular() bool {
	if len(g) == 0 || len(g[0]) == 0 {
		return false
	}
	cols := len(g[0])
	for _, row := range g[1:] {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// TargetSlot is either unset or set with a face reference.
type TargetSlot struct {
	face string
}

// UnsetTarget returns an empty target slot.
func UnsetTarget() TargetSlot {
	return TargetSlot{}
}

// TargetWithFace returns a slot holding face. An empty face yields an unset slot.
func TargetWithFace(face string) TargetSlot {
	return TargetSlot{face: face}
}

// IsSet reports whether a target has been chosen.
func (t TargetSlot) IsSet() bool {
	return t.face != ""
}

// Face returns the chosen face reference, or "" when unset.
func (t TargetSlot) Face() string {
	return t.face
}

// State is the whole board as last pushed by the server.
type State struct {
	MyGrid           Grid
	MyTarget         TargetSlot
	TheirGrid        Grid
	TheirTargetIsSet bool
}

// Empty reports whether the state holds no game.
func (s *State) Empty() bool {
	return s == nil || len(s.MyGrid) == 0
}
