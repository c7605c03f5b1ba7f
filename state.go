package rubikscube

import (
	"fmt"
	"strings"
)

const (
	NumCorners = 8  // Corner cubies
	NumEdges   = 12 // Edge cubies
)

// Corner slots.
const (
	cornerURF = iota
	cornerUFL
	cornerULB
	cornerUBR
	cornerDFR
	cornerDLF
	cornerDBL
	cornerDRB
)

// Edge slots.
const (
	edgeUR = iota
	edgeUF
	edgeUL
	edgeUB
	edgeDR
	edgeDF
	edgeDL
	edgeDB
	edgeFR
	edgeFL
	edgeBL
	edgeBR
)

// State is a complete cubie-level snapshot of a cube.
//
// CornerPerm[i] is the corner piece occupying slot i and CornerOri[i] its
// twist (0..2). EdgePerm and EdgeOri are the same for edges, with flips
// 0..1. States are comparable with ==.
type State struct {
	CornerPerm [NumCorners]uint8
	CornerOri  [NumCorners]uint8
	EdgePerm   [NumEdges]uint8
	EdgeOri    [NumEdges]uint8
}

// Identity returns the solved state.
func Identity() State {
	var s State
	for i := range s.CornerPerm {
		s.CornerPerm[i] = uint8(i)
	}
	for i := range s.EdgePerm {
		s.EdgePerm[i] = uint8(i)
	}
	return s
}

var identityState = Identity()

// mod3 reduces a sum of two corner twists.
var mod3 = [5]uint8{0, 1, 2, 0, 1}

// apply replaces s with s followed by m. Each slot i receives the occupant
// of slot m.CornerPerm[i] (resp. m.EdgePerm[i]) with m's twist added.
func (s *State) apply(m *State) {
	cp, co, ep, eo := s.CornerPerm, s.CornerOri, s.EdgePerm, s.EdgeOri
	for i := 0; i < NumCorners; i++ {
		from := m.CornerPerm[i]
		s.CornerPerm[i] = cp[from]
		s.CornerOri[i] = mod3[co[from]+m.CornerOri[i]]
	}
	for i := 0; i < NumEdges; i++ {
		from := m.EdgePerm[i]
		s.EdgePerm[i] = ep[from]
		s.EdgeOri[i] = eo[from] ^ m.EdgeOri[i]
	}
}

// Multiply returns the state reached by applying m after s.
func (s State) Multiply(m State) State {
	s.apply(&m)
	return s
}

// Validate reports whether s is a well-formed state: both permutations are
// bijections and all orientations are in range. It does not check that the
// state is reachable; see IsSolvable.
func (s State) Validate() error {
	var seenC [NumCorners]bool
	for i, p := range s.CornerPerm {
		if int(p) >= NumCorners || seenC[p] {
			return fmt.Errorf("%w: corner slot %d holds piece %d", ErrInvalidState, i, p)
		}
		seenC[p] = true
		if s.CornerOri[i] > 2 {
			return fmt.Errorf("%w: corner slot %d has twist %d", ErrInvalidState, i, s.CornerOri[i])
		}
	}

	var seenE [NumEdges]bool
	for i, p := range s.EdgePerm {
		if int(p) >= NumEdges || seenE[p] {
			return fmt.Errorf("%w: edge slot %d holds piece %d", ErrInvalidState, i, p)
		}
		seenE[p] = true
		if s.EdgeOri[i] > 1 {
			return fmt.Errorf("%w: edge slot %d has flip %d", ErrInvalidState, i, s.EdgeOri[i])
		}
	}

	return nil
}

// IsSolvable reports whether s can be reached from the solved state by face
// turns: equal permutation parities, edge flips summing to 0 mod 2 and corner
// twists summing to 0 mod 3.
func (s State) IsSolvable() bool {
	if s.Validate() != nil {
		return false
	}
	if parity(s.CornerPerm[:]) != parity(s.EdgePerm[:]) {
		return false
	}

	var twist, flip int
	for _, o := range s.CornerOri {
		twist += int(o)
	}
	for _, o := range s.EdgeOri {
		flip += int(o)
	}
	return twist%3 == 0 && flip%2 == 0
}

// parity returns 1 for odd permutations and 0 for even ones.
func parity(perm []uint8) int {
	inversions := 0
	for i := 0; i < len(perm); i++ {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				inversions++
			}
		}
	}
	return inversions % 2
}

const hexDigits = "0123456789ab"

// String encodes s as four slash-separated groups: corner pieces, corner
// twists, edge pieces and edge flips, one hex digit per slot.
//
//	01234567/00000000/0123456789ab/000000000000
func (s State) String() string {
	var b strings.Builder
	b.Grow(2*NumCorners + 2*NumEdges + 3)
	for _, p := range s.CornerPerm {
		b.WriteByte(hexDigits[p%NumEdges])
	}
	b.WriteByte('/')
	for _, o := range s.CornerOri {
		b.WriteByte(hexDigits[o%NumEdges])
	}
	b.WriteByte('/')
	for _, p := range s.EdgePerm {
		b.WriteByte(hexDigits[p%NumEdges])
	}
	b.WriteByte('/')
	for _, o := range s.EdgeOri {
		b.WriteByte(hexDigits[o%NumEdges])
	}
	return b.String()
}

// ParseState decodes the format produced by State.String and validates it.
func ParseState(text string) (State, error) {
	var s State

	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 4 {
		return s, fmt.Errorf("%w: expected 4 groups, got %d", ErrInvalidState, len(parts))
	}

	groups := []struct {
		dst []uint8
		src string
	}{
		{s.CornerPerm[:], parts[0]},
		{s.CornerOri[:], parts[1]},
		{s.EdgePerm[:], parts[2]},
		{s.EdgeOri[:], parts[3]},
	}
	for gi, g := range groups {
		if len(g.src) != len(g.dst) {
			return State{}, fmt.Errorf("%w: group %d has %d digits, want %d", ErrInvalidState, gi, len(g.src), len(g.dst))
		}
		for i := 0; i < len(g.src); i++ {
			d := strings.IndexByte(hexDigits, g.src[i])
			if d < 0 {
				return State{}, fmt.Errorf("%w: bad digit %q in group %d", ErrInvalidState, g.src[i], gi)
			}
			g.dst[i] = uint8(d)
		}
	}

	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}
