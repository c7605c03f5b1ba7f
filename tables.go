package rubikscube

import "fmt"

// baseTurns are the clockwise quarter turns of each face, in Faces order,
// expressed as the state each produces from the solved cube. Slot i of the
// result draws its occupant from slot CornerPerm[i] / EdgePerm[i].
//
// Twists are counted against the U/D facelet of each corner, flips against
// the U/D facelet (or F/B facelet for middle-layer edges), so U and D never
// change orientation, R and L twist corners only, and F and B twist corners
// and flip edges.
var baseTurns = [6]State{
	// U
	{
		CornerPerm: [NumCorners]uint8{cornerUBR, cornerURF, cornerUFL, cornerULB, cornerDFR, cornerDLF, cornerDBL, cornerDRB},
		EdgePerm:   [NumEdges]uint8{edgeUB, edgeUR, edgeUF, edgeUL, edgeDR, edgeDF, edgeDL, edgeDB, edgeFR, edgeFL, edgeBL, edgeBR},
	},
	// D
	{
		CornerPerm: [NumCorners]uint8{cornerURF, cornerUFL, cornerULB, cornerUBR, cornerDLF, cornerDBL, cornerDRB, cornerDFR},
		EdgePerm:   [NumEdges]uint8{edgeUR, edgeUF, edgeUL, edgeUB, edgeDF, edgeDL, edgeDB, edgeDR, edgeFR, edgeFL, edgeBL, edgeBR},
	},
	// F
	{
		CornerPerm: [NumCorners]uint8{cornerUFL, cornerDLF, cornerULB, cornerUBR, cornerURF, cornerDFR, cornerDBL, cornerDRB},
		CornerOri:  [NumCorners]uint8{1, 2, 0, 0, 2, 1, 0, 0},
		EdgePerm:   [NumEdges]uint8{edgeUR, edgeFL, edgeUL, edgeUB, edgeDR, edgeFR, edgeDL, edgeDB, edgeUF, edgeDF, edgeBL, edgeBR},
		EdgeOri:    [NumEdges]uint8{0, 1, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0},
	},
	// B
	{
		CornerPerm: [NumCorners]uint8{cornerURF, cornerUFL, cornerUBR, cornerDRB, cornerDFR, cornerDLF, cornerULB, cornerDBL},
		CornerOri:  [NumCorners]uint8{0, 0, 1, 2, 0, 0, 2, 1},
		EdgePerm:   [NumEdges]uint8{edgeUR, edgeUF, edgeUL, edgeBR, edgeDR, edgeDF, edgeDL, edgeBL, edgeFR, edgeFL, edgeUB, edgeDB},
		EdgeOri:    [NumEdges]uint8{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 1, 1},
	},
	// R
	{
		CornerPerm: [NumCorners]uint8{cornerDFR, cornerUFL, cornerULB, cornerURF, cornerDRB, cornerDLF, cornerDBL, cornerUBR},
		CornerOri:  [NumCorners]uint8{2, 0, 0, 1, 1, 0, 0, 2},
		EdgePerm:   [NumEdges]uint8{edgeFR, edgeUF, edgeUL, edgeUB, edgeBR, edgeDF, edgeDL, edgeDB, edgeDR, edgeFL, edgeBL, edgeUR},
	},
	// L
	{
		CornerPerm: [NumCorners]uint8{cornerURF, cornerULB, cornerDBL, cornerUBR, cornerDFR, cornerUFL, cornerDLF, cornerDRB},
		CornerOri:  [NumCorners]uint8{0, 1, 2, 0, 0, 2, 1, 0},
		EdgePerm:   [NumEdges]uint8{edgeUR, edgeUF, edgeBL, edgeUB, edgeDR, edgeDF, edgeFL, edgeDB, edgeFR, edgeUL, edgeDL, edgeBR},
	},
}

// turnTable returns the table for m.
// Counter-clockwise is three clockwise turns and a half turn is two.
func turnTable(m Move) (State, error) {
	if err := m.Validate(); err != nil {
		return State{}, err
	}
	repeat := 1
	switch m.Turn {
	case CCW:
		repeat = 3
	case Double:
		repeat = 2
	}

	face := m.Face.index()
	s := identityState
	for i := 0; i < repeat; i++ {
		s.apply(&baseTurns[face])
	}
	return s, nil
}

// buildTables computes the table of every move in order and checks each.
// A failing check means the constant tables above are wrong, so it panics.
func buildTables(moves []Move) []State {
	tables := make([]State, len(moves))
	for i, m := range moves {
		t, err := turnTable(m)
		if err == nil {
			err = checkTable(t)
		}
		if err != nil {
			panic(fmt.Sprintf("rubikscube: bad move table for %s: %v", m, err))
		}
		tables[i] = t
	}
	return tables
}

// checkTable verifies that t is a legal face turn: well formed, orientation
// sums preserved, and exactly four corners and four edges moved.
func checkTable(t State) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if !t.IsSolvable() {
		return fmt.Errorf("orientation or parity invariant broken")
	}

	var corners, edges int
	for i, p := range t.CornerPerm {
		if int(p) != i {
			corners++
		} else if t.CornerOri[i] != 0 {
			return fmt.Errorf("corner %d twisted in place", i)
		}
	}
	for i, p := range t.EdgePerm {
		if int(p) != i {
			edges++
		} else if t.EdgeOri[i] != 0 {
			return fmt.Errorf("edge %d flipped in place", i)
		}
	}
	if corners != 4 || edges != 4 {
		return fmt.Errorf("moved %d corners and %d edges, want 4 and 4", corners, edges)
	}
	return nil
}
