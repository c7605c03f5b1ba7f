package rubikscube

import (
	"fmt"
	"strings"
)

// Color represents a face color.
type Color byte

const (
	White  Color = 0 // Up face when solved
	Yellow Color = 1 // Down face when solved
	Green  Color = 2 // Front face when solved
	Blue   Color = 3 // Back face when solved
	Red    Color = 4 // Right face when solved
	Orange Color = 5 // Left face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// Face indices into FaceletCube.Facelets, in Faces order.
const (
	faceU = iota
	faceD
	faceF
	faceB
	faceR
	faceL
)

// FaceletCube is a sticker-level cube, used for rendering.
// Each face has 9 facelets indexed as:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// Faces are laid out as an unfolded net: B is seen from behind and D from
// below with F at the top. The center (index 4) never moves.
type FaceletCube struct {
	// Facelets[face][position] = color, faces in Faces order
	Facelets [6][9]Color
}

// NewFaceletCube creates a solved sticker cube:
// White on top, Green in front.
func NewFaceletCube() *FaceletCube {
	c := &FaceletCube{}
	for face := 0; face < 6; face++ {
		color := Color(face)
		for i := 0; i < 9; i++ {
			c.Facelets[face][i] = color
		}
	}
	return c
}

// IsSolved returns true if every face shows a single color.
func (c *FaceletCube) IsSolved() bool {
	for face := 0; face < 6; face++ {
		for i := 0; i < 9; i++ {
			if c.Facelets[face][i] != c.Facelets[face][4] {
				return false
			}
		}
	}
	return true
}

// ApplyMove turns one face of the sticker cube. A malformed move returns
// ErrInvalidNotation and leaves the stickers unchanged.
func (c *FaceletCube) ApplyMove(m Move) error {
	if err := m.Validate(); err != nil {
		return err
	}
	face := m.Face.index()
	switch m.Turn {
	case CW:
		c.moveCW(face)
	case CCW:
		c.moveCW(face)
		c.moveCW(face)
		c.moveCW(face)
	case Double:
		c.moveCW(face)
		c.moveCW(face)
	}
	return nil
}

// moveCW rotates a face 90 degrees clockwise along with its ring.
func (c *FaceletCube) moveCW(face int) {
	f := &c.Facelets[face]
	// Corner rotation: 0->2->8->6->0
	// Edge rotation: 1->5->7->3->1
	f[0], f[2], f[8], f[6] = f[6], f[0], f[2], f[8]
	f[1], f[5], f[7], f[3] = f[3], f[1], f[5], f[7]

	r := &rings[face]
	for k := 0; k < 3; k++ {
		a, b, cc, d := r[0][k], r[1][k], r[2][k], r[3][k]
		c.Facelets[a.face][a.pos], c.Facelets[b.face][b.pos], c.Facelets[cc.face][cc.pos], c.Facelets[d.face][d.pos] =
			c.Facelets[d.face][d.pos], c.Facelets[a.face][a.pos], c.Facelets[b.face][b.pos], c.Facelets[cc.face][cc.pos]
	}
}

type facelet struct {
	face, pos int
}

// rings lists, per face, the four strips of three facelets bordering it.
// A clockwise turn moves strip 0 into strip 1, 1 into 2, 2 into 3 and 3
// into 0.
var rings = [6][4][3]facelet{
	faceU: {
		{{faceF, 0}, {faceF, 1}, {faceF, 2}},
		{{faceL, 0}, {faceL, 1}, {faceL, 2}},
		{{faceB, 0}, {faceB, 1}, {faceB, 2}},
		{{faceR, 0}, {faceR, 1}, {faceR, 2}},
	},
	faceD: {
		{{faceF, 6}, {faceF, 7}, {faceF, 8}},
		{{faceR, 6}, {faceR, 7}, {faceR, 8}},
		{{faceB, 6}, {faceB, 7}, {faceB, 8}},
		{{faceL, 6}, {faceL, 7}, {faceL, 8}},
	},
	faceF: {
		{{faceU, 6}, {faceU, 7}, {faceU, 8}},
		{{faceR, 0}, {faceR, 3}, {faceR, 6}},
		{{faceD, 2}, {faceD, 1}, {faceD, 0}},
		{{faceL, 8}, {faceL, 5}, {faceL, 2}},
	},
	faceB: {
		{{faceU, 2}, {faceU, 1}, {faceU, 0}},
		{{faceL, 0}, {faceL, 3}, {faceL, 6}},
		{{faceD, 6}, {faceD, 7}, {faceD, 8}},
		{{faceR, 8}, {faceR, 5}, {faceR, 2}},
	},
	faceR: {
		{{faceU, 2}, {faceU, 5}, {faceU, 8}},
		{{faceB, 6}, {faceB, 3}, {faceB, 0}},
		{{faceD, 2}, {faceD, 5}, {faceD, 8}},
		{{faceF, 2}, {faceF, 5}, {faceF, 8}},
	},
	faceL: {
		{{faceU, 0}, {faceU, 3}, {faceU, 6}},
		{{faceF, 0}, {faceF, 3}, {faceF, 6}},
		{{faceD, 0}, {faceD, 3}, {faceD, 6}},
		{{faceB, 8}, {faceB, 5}, {faceB, 2}},
	},
}

// cornerFacelets lists the stickers of each corner slot, starting with the
// U or D sticker and going clockwise around the corner.
var cornerFacelets = [NumCorners][3]facelet{
	cornerURF: {{faceU, 8}, {faceR, 0}, {faceF, 2}},
	cornerUFL: {{faceU, 6}, {faceF, 0}, {faceL, 2}},
	cornerULB: {{faceU, 0}, {faceL, 0}, {faceB, 2}},
	cornerUBR: {{faceU, 2}, {faceB, 0}, {faceR, 2}},
	cornerDFR: {{faceD, 2}, {faceF, 8}, {faceR, 6}},
	cornerDLF: {{faceD, 0}, {faceL, 8}, {faceF, 6}},
	cornerDBL: {{faceD, 6}, {faceB, 8}, {faceL, 6}},
	cornerDRB: {{faceD, 8}, {faceR, 8}, {faceB, 6}},
}

// edgeFacelets lists the stickers of each edge slot, reference sticker first.
var edgeFacelets = [NumEdges][2]facelet{
	edgeUR: {{faceU, 5}, {faceR, 1}},
	edgeUF: {{faceU, 7}, {faceF, 1}},
	edgeUL: {{faceU, 3}, {faceL, 1}},
	edgeUB: {{faceU, 1}, {faceB, 1}},
	edgeDR: {{faceD, 5}, {faceR, 7}},
	edgeDF: {{faceD, 1}, {faceF, 7}},
	edgeDL: {{faceD, 3}, {faceL, 7}},
	edgeDB: {{faceD, 7}, {faceB, 7}},
	edgeFR: {{faceF, 5}, {faceR, 3}},
	edgeFL: {{faceF, 3}, {faceL, 5}},
	edgeBL: {{faceB, 5}, {faceL, 3}},
	edgeBR: {{faceB, 3}, {faceR, 5}},
}

// Facelets converts a cubie state into stickers. Slot i's stickers are
// painted with the home colors of the piece it holds, rotated by its twist.
func (s State) Facelets() *FaceletCube {
	c := &FaceletCube{}
	for face := 0; face < 6; face++ {
		c.Facelets[face][4] = Color(face)
	}

	for i := 0; i < NumCorners; i++ {
		piece, ori := int(s.CornerPerm[i]), int(s.CornerOri[i])
		for n := 0; n < 3; n++ {
			dst := cornerFacelets[i][(n+ori)%3]
			c.Facelets[dst.face][dst.pos] = Color(cornerFacelets[piece][n].face)
		}
	}
	for i := 0; i < NumEdges; i++ {
		piece, ori := int(s.EdgePerm[i]), int(s.EdgeOri[i])
		for n := 0; n < 2; n++ {
			dst := edgeFacelets[i][(n+ori)%2]
			c.Facelets[dst.face][dst.pos] = Color(edgeFacelets[piece][n].face)
		}
	}
	return c
}

// State identifies every corner and edge from its stickers and returns the
// cubie state. Centers must sit in Faces order (U white, D yellow, F green,
// B blue, R red, L orange) and every sticker must be one of the six
// colors. A sticker pattern that no real piece has, or a piece appearing
// twice, is ErrInvalidState. The result may still be unsolvable; check
// State.IsSolvable.
func (c *FaceletCube) State() (State, error) {
	for face := 0; face < 6; face++ {
		for pos, col := range c.Facelets[face] {
			if col > Orange {
				return State{}, fmt.Errorf("%w: invalid color %d at %s%d", ErrInvalidState, col, Faces[face], pos)
			}
		}
		if center := c.Facelets[face][4]; center != Color(face) {
			return State{}, fmt.Errorf("%w: %s center is %s, want %s", ErrInvalidState, Faces[face], center, Color(face))
		}
	}

	var s State
	for i := 0; i < NumCorners; i++ {
		var col [3]Color
		for n, f := range cornerFacelets[i] {
			col[n] = c.Facelets[f.face][f.pos]
		}
		piece, ori, ok := findCorner(col)
		if !ok {
			return State{}, fmt.Errorf("%w: no corner has colors %s%s%s", ErrInvalidState, col[0], col[1], col[2])
		}
		s.CornerPerm[i], s.CornerOri[i] = uint8(piece), uint8(ori)
	}
	for i := 0; i < NumEdges; i++ {
		var col [2]Color
		for n, f := range edgeFacelets[i] {
			col[n] = c.Facelets[f.face][f.pos]
		}
		piece, ori, ok := findEdge(col)
		if !ok {
			return State{}, fmt.Errorf("%w: no edge has colors %s%s", ErrInvalidState, col[0], col[1])
		}
		s.EdgePerm[i], s.EdgeOri[i] = uint8(piece), uint8(ori)
	}

	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// findCorner returns the piece whose home colors, read clockwise from its
// U or D sticker, appear in col starting at index ori.
func findCorner(col [3]Color) (piece, ori int, ok bool) {
	for piece = 0; piece < NumCorners; piece++ {
		for ori = 0; ori < 3; ori++ {
			match := true
			for n := 0; n < 3; n++ {
				if col[(n+ori)%3] != Color(cornerFacelets[piece][n].face) {
					match = false
					break
				}
			}
			if match {
				return piece, ori, true
			}
		}
	}
	return 0, 0, false
}

func findEdge(col [2]Color) (piece, ori int, ok bool) {
	for piece = 0; piece < NumEdges; piece++ {
		for ori = 0; ori < 2; ori++ {
			if col[ori] == Color(edgeFacelets[piece][0].face) &&
				col[(1+ori)%2] == Color(edgeFacelets[piece][1].face) {
				return piece, ori, true
			}
		}
	}
	return 0, 0, false
}

// ParseColor parses a sticker letter (W, Y, G, B, R or O, any case).
func ParseColor(s string) (Color, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "W":
		return White, nil
	case "Y":
		return Yellow, nil
	case "G":
		return Green, nil
	case "B":
		return Blue, nil
	case "R":
		return Red, nil
	case "O":
		return Orange, nil
	}
	return 0, fmt.Errorf("%w: invalid color %q", ErrInvalidState, s)
}

// ParseFacelets reads 54 sticker letters, whitespace ignored, face by face
// in Faces order (U D F B R L), each face row by row as laid out in the net.
func ParseFacelets(text string) (*FaceletCube, error) {
	letters := strings.Join(strings.Fields(text), "")
	if len(letters) != 54 {
		return nil, fmt.Errorf("%w: want 54 stickers, got %d", ErrInvalidState, len(letters))
	}

	c := &FaceletCube{}
	for k := 0; k < 54; k++ {
		col, err := ParseColor(letters[k : k+1])
		if err != nil {
			return nil, err
		}
		c.Facelets[k/9][k%9] = col
	}
	return c, nil
}

// String returns a text representation of the cube.
func (c *FaceletCube) String() string {
	return c.Format(func(col Color, s string) string { return s })
}

// Format renders the unfolded net, passing every sticker through paint so
// callers can colorize it.
func (c *FaceletCube) Format(paint func(col Color, s string) string) string {
	var b strings.Builder

	// U face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			color := c.Facelets[faceU][row*3+col]
			b.WriteString(paint(color, color.String()))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	// L, F, R, B faces (side by side)
	for row := 0; row < 3; row++ {
		for _, face := range []int{faceL, faceF, faceR, faceB} {
			for col := 0; col < 3; col++ {
				color := c.Facelets[face][row*3+col]
				b.WriteString(paint(color, color.String()))
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}

	// D face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			color := c.Facelets[faceD][row*3+col]
			b.WriteString(paint(color, color.String()))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	return b.String()
}
