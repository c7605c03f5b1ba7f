package rubikscube

import "fmt"

// Cube is a 3x3x3 cube simulated at the cubie level.
//
// A Cube is bound to one Metric at construction; Turn interprets action ids
// under that metric. Turn, Solved and Representation never allocate.
// A Cube is not safe for concurrent use, but distinct cubes may be used
// from distinct goroutines since the move tables are shared read-only.
type Cube struct {
	state  State
	metric Metric
	table  []State
}

// New creates a solved cube using the metric of the given kind.
func New(kind MetricKind) (*Cube, error) {
	m, err := MetricFor(kind)
	if err != nil {
		return nil, err
	}
	return newCube(m), nil
}

// NewQuarterTurn creates a solved cube with 12 quarter-turn actions.
func NewQuarterTurn() *Cube { return newCube(QuarterTurnMetric()) }

// NewHalfTurn creates a solved cube with 18 half-turn actions.
func NewHalfTurn() *Cube { return newCube(HalfTurnMetric()) }

// NewWithMetric creates a solved cube using m.
func NewWithMetric(m Metric) (*Cube, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil metric", ErrInvalidConfiguration)
	}
	return newCube(m), nil
}

func newCube(m Metric) *Cube {
	return &Cube{
		state:  identityState,
		metric: m,
		table:  m.tables(),
	}
}

// Metric returns the metric the cube was built with.
func (c *Cube) Metric() Metric { return c.metric }

// Reset returns the cube to the solved state.
func (c *Cube) Reset() {
	c.state = identityState
}

// Turn applies the move with the given action id.
// The cube is left unchanged when action is out of range.
func (c *Cube) Turn(action int) error {
	if uint(action) >= uint(len(c.table)) {
		return outOfRange(action, len(c.table))
	}
	c.state.apply(&c.table[action])
	return nil
}

// TurnMove applies m if it belongs to the cube's metric.
func (c *Cube) TurnMove(m Move) error {
	action, err := c.metric.ActionOf(m)
	if err != nil {
		return err
	}
	c.state.apply(&c.table[action])
	return nil
}

// Apply applies a sequence of moves. Moves not in the cube's metric are
// applied by composing legal turns, so a half turn works under either metric.
// A malformed move returns ErrInvalidNotation before any move is applied.
func (c *Cube) Apply(moves ...Move) error {
	for i, m := range moves {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("move %d: %w", i, err)
		}
	}
	for _, m := range moves {
		if action, err := c.metric.ActionOf(m); err == nil {
			c.state.apply(&c.table[action])
			continue
		}
		t, _ := turnTable(m)
		c.state.apply(&t)
	}
	return nil
}

// Solved reports whether the cube is in the solved state.
func (c *Cube) Solved() bool {
	return c.state == identityState
}

// State returns a copy of the cubie state.
func (c *Cube) State() State { return c.state }

// SetState replaces the cube's state. Malformed states are rejected with
// ErrInvalidState; well-formed but unreachable states are accepted, see
// IsSolvable.
func (c *Cube) SetState(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.state = s
	return nil
}

// IsSolvable reports whether the current state can be solved by face turns.
func (c *Cube) IsSolvable() bool { return c.state.IsSolvable() }

// Equal reports whether both cubes are in the same state.
// Metrics are not compared.
func (c *Cube) Equal(other *Cube) bool {
	return c.state == other.state
}

// Clone returns an independent copy sharing the same metric.
func (c *Cube) Clone() *Cube {
	cp := *c
	return &cp
}

// FaceletCube returns the sticker view of the current state.
func (c *Cube) FaceletCube() *FaceletCube {
	return c.state.Facelets()
}

// String returns the unfolded net of the cube.
func (c *Cube) String() string {
	return c.state.Facelets().String()
}

// GoString is used by %#v.
func (c *Cube) GoString() string {
	return fmt.Sprintf("rubikscube.Cube{%s %s}", c.metric.Kind(), c.state)
}
