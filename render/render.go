package render

import (
	"strings"

	"guesswho-client/board"
)

// DefaultFacelessImage is shown for cards whose face is unknown.
const DefaultFacelessImage = "/static/img/faceless.jpg"

// Region names one of the two grids.
type Region string

const (
	RegionMine   Region = "mine"
	RegionTheirs Region = "theirs"
)

// CardNode is the visual content of a card.
type CardNode struct {
	Image   string `json:"image"`
	Label   string `json:"label,omitempty"`
	HasFace bool   `json:"hasFace"`
}

// Cell is one grid position. Clickable cells carry a tap handler in the renderer.
type Cell struct {
	Row       int      `json:"row"`
	Col       int      `json:"col"`
	Card      CardNode `json:"card"`
	Flipped   bool     `json:"flipped"`
	Clickable bool     `json:"clickable"`
}

// GridNode is the visual form of one grid, cells in row-major order.
type GridNode struct {
	Region Region `json:"region"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Cells  []Cell `json:"cells"`
}

// TargetNode is a target slot. Card is nil when the slot is hidden.
type TargetNode struct {
	Visible bool      `json:"visible"`
	Card    *CardNode `json:"card,omitempty"`
}

// Tree is the complete visual description of one board snapshot.
type Tree struct {
	MyGrid      GridNode   `json:"myGrid"`
	TheirGrid   GridNode   `json:"theirGrid"`
	MyTarget    TargetNode `json:"myTarget"`
	TheirTarget TargetNode `json:"theirTarget"`
}

// Cell returns the cell at (row, col) in region.
func (t *Tree) Cell(region Region, row, col int) (Cell, bool) {
	if t == nil {
		return Cell{}, false
	}
	var g *GridNode
	switch region {
	case RegionMine:
		g = &t.MyGrid
	case RegionTheirs:
		g = &t.TheirGrid
	default:
		return Cell{}, false
	}
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return Cell{}, false
	}
	idx := row*g.Cols + col
	if idx >= len(g.Cells) {
		return Cell{}, false
	}
	return g.Cells[idx], true
}

// Projector builds visual trees. The zero value uses DefaultFacelessImage.
type Projector struct {
	FacelessImage string
}

// Project returns the visual tree for st. It has no side effects.
func (p Projector) Project(st *board.State) *Tree {
	if st == nil {
		st = &board.State{}
	}
	tree := &Tree{
		MyGrid:    p.grid(RegionMine, st.MyGrid),
		TheirGrid: p.grid(RegionTheirs, st.TheirGrid),
	}
	if st.MyTarget.IsSet() {
		card := p.card(st.MyTarget.Face())
		tree.MyTarget = TargetNode{Visible: true, Card: &card}
	}
	if st.TheirTargetIsSet {
		card := p.card("")
		tree.TheirTarget = TargetNode{Visible: true, Card: &card}
	}
	return tree
}

func (p Projector) grid(region Region, g board.Grid) GridNode {
	node := GridNode{
		Region: region,
		Rows:   g.Rows(),
		Cols:   g.Cols(),
		Cells:  make([]Cell, 0, g.Rows()*g.Cols()),
	}
	for r, row := range g {
		for c, card := range row {
			node.Cells = append(node.Cells, Cell{
				Row:     r,
				Col:     c,
				Card:    p.card(card.Face),
				Flipped: card.Flipped,
				// Only cards with a known face get a tap handler. For the
				// opponent grid this excludes the unflipped cards; kept as is
				// until the intended game rule is confirmed.
				Clickable: card.HasFace(),
			})
		}
	}
	return node
}

func (p Projector) card(face string) CardNode {
	if face == "" {
		img := p.FacelessImage
		if img == "" {
			img = DefaultFacelessImage
		}
		return CardNode{Image: img}
	}
	return CardNode{Image: face, Label: Label(face), HasFace: true}
}

// Label derives a display name from a face reference: the last path segment
// up to its first dot. "/static/facepacks/animals/panda.png" gives "panda".
// If that leaves nothing, the whole reference is used.
func Label(face string) string {
	name := face
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return face
	}
	return name
}
