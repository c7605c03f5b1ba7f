package rubikscube

import (
	"fmt"
	"strings"
	"sync"
)

// MetricKind selects the set of legal actions.
type MetricKind int

const (
	// QuarterTurn allows 90 degree turns in both directions (12 actions).
	QuarterTurn MetricKind = iota + 1

	// HalfTurn additionally allows 180 degree turns (18 actions).
	HalfTurn
)

// String returns the configuration name of the metric.
func (k MetricKind) String() string {
	switch k {
	case QuarterTurn:
		return "quarter_turn"
	case HalfTurn:
		return "half_turn"
	default:
		return "unknown"
	}
}

// ParseMetricKind parses a metric name such as "half_turn" or "qtm".
func ParseMetricKind(s string) (MetricKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quarter_turn", "quarter", "qtm":
		return QuarterTurn, nil
	case "half_turn", "half", "htm":
		return HalfTurn, nil
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidConfiguration, s)
	}
}

// Metric is an ordered, immutable set of moves. Action ids are dense
// integers in [0, MoveCount()).
//
// Metrics are safe for concurrent use. The only implementations are the
// ones returned by QuarterTurnMetric and HalfTurnMetric.
type Metric interface {
	// Kind identifies the metric.
	Kind() MetricKind

	// MoveCount returns the number of legal actions.
	MoveCount() int

	// MoveAt returns the move for an action id.
	MoveAt(action int) (Move, error)

	// ActionOf returns the action id of a move.
	ActionOf(m Move) (int, error)

	// tables returns the precomputed move tables, indexed by action id.
	tables() []State
}

type turnMetric struct {
	kind  MetricKind
	moves []Move
	table []State
}

func (m *turnMetric) Kind() MetricKind { return m.kind }

func (m *turnMetric) MoveCount() int { return len(m.moves) }

func (m *turnMetric) MoveAt(action int) (Move, error) {
	if uint(action) >= uint(len(m.moves)) {
		return Move{}, outOfRange(action, len(m.moves))
	}
	return m.moves[action], nil
}

func (m *turnMetric) ActionOf(mv Move) (int, error) {
	if err := mv.Validate(); err != nil {
		return -1, err
	}
	for i, candidate := range m.moves {
		if candidate == mv {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: move %s not in %s metric", ErrOutOfRange, mv, m.kind)
}

func (m *turnMetric) tables() []State { return m.table }

func (m *turnMetric) String() string {
	return fmt.Sprintf("%s(%d)", m.kind, len(m.moves))
}

// newTurnMetric lists every face for each allowed turn, so ids are grouped
// by turn: all clockwise, then all counter-clockwise, then all half turns.
func newTurnMetric(kind MetricKind) *turnMetric {
	turns := []Turn{CW, CCW}
	if kind == HalfTurn {
		turns = append(turns, Double)
	}

	moves := make([]Move, 0, len(turns)*len(Faces))
	for _, t := range turns {
		for _, f := range Faces {
			moves = append(moves, Move{Face: f, Turn: t})
		}
	}

	return &turnMetric{
		kind:  kind,
		moves: moves,
		table: buildTables(moves),
	}
}

// Tables are built once per process on first use and shared read-only.
var (
	quarterTurn = sync.OnceValue(func() *turnMetric { return newTurnMetric(QuarterTurn) })
	halfTurn    = sync.OnceValue(func() *turnMetric { return newTurnMetric(HalfTurn) })
)

// QuarterTurnMetric returns the shared 12-action metric.
func QuarterTurnMetric() Metric { return quarterTurn() }

// HalfTurnMetric returns the shared 18-action metric.
func HalfTurnMetric() Metric { return halfTurn() }

// MetricFor returns the shared metric of the given kind.
func MetricFor(kind MetricKind) (Metric, error) {
	switch kind {
	case QuarterTurn:
		return QuarterTurnMetric(), nil
	case HalfTurn:
		return HalfTurnMetric(), nil
	default:
		return nil, fmt.Errorf("%w: unknown metric kind %d", ErrInvalidConfiguration, int(kind))
	}
}

// Inverse returns the action id that undoes action under m.
func Inverse(m Metric, action int) (int, error) {
	mv, err := m.MoveAt(action)
	if err != nil {
		return -1, err
	}
	return m.ActionOf(mv.Inverse())
}

// ParseActions converts a notation sequence such as "R U R' U'" into action
// ids under m. Moves outside the metric are reported as ErrOutOfRange.
func ParseActions(m Metric, notation string) ([]int, error) {
	moves, err := ParseMoves(notation)
	if err != nil {
		return nil, err
	}

	actions := make([]int, len(moves))
	for i, mv := range moves {
		if actions[i], err = m.ActionOf(mv); err != nil {
			return nil, err
		}
	}
	return actions, nil
}
