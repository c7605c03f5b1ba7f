package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/rubikscube"
	"github.com/SeamusWaldron/rubikscube/env"
)

// constSource always draws the same action.
type constSource int

func (c constSource) IntN(n int) int { return int(c) % n }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestModel scrambles with the single move R.
func newTestModel(t *testing.T, kind rubikscube.MetricKind) *playModel {
	t.Helper()
	m, err := newPlayModel(false,
		env.WithMetric(kind),
		env.WithScrambleMoves(1),
		env.WithSource(constSource(4)),
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPlaySolve(t *testing.T) {
	m := newTestModel(t, rubikscube.QuarterTurn)
	if m.solved {
		t.Fatal("scrambled cube should not start solved")
	}

	m.Update(runes("R"))
	if !m.solved {
		t.Fatal("R' should solve an R scramble")
	}
	if !strings.Contains(m.View(), "Solved in 1 steps!") {
		t.Errorf("view should report the solve:\n%s", m.View())
	}
}

func TestPlayUndo(t *testing.T) {
	m := newTestModel(t, rubikscube.HalfTurn)
	before := m.env.Cube().State()

	m.Update(runes("u"))
	m.Update(runes("z"))
	if m.env.Cube().State() != before {
		t.Error("undo should restore the state")
	}
	if len(m.history) != 0 || m.env.Steps() != 2 {
		t.Errorf("history %v, steps %d; want empty history and 2 steps", m.history, m.env.Steps())
	}

	// Nothing left to undo.
	m.Update(runes("z"))
	if m.env.Steps() != 2 {
		t.Error("undo with empty history should not step")
	}
}

func TestPlayHalfTurn(t *testing.T) {
	m := newTestModel(t, rubikscube.HalfTurn)
	m.Update(runes("2"))
	m.Update(runes("r"))
	m.Update(runes("r"))
	if !m.solved {
		t.Error("R + R2 + R should solve an R scramble")
	}

	q := newTestModel(t, rubikscube.QuarterTurn)
	q.Update(runes("2"))
	q.Update(runes("f"))
	if q.err == nil {
		t.Error("half turns are outside the quarter turn metric")
	}
	if q.env.Steps() != 0 {
		t.Error("rejected move should not step")
	}
}

func TestPlayReset(t *testing.T) {
	m := newTestModel(t, rubikscube.HalfTurn)
	m.Update(runes("d"))
	m.Update(runes("n"))
	if m.env.Steps() != 0 || m.env.Episode() != 1 || len(m.history) != 0 {
		t.Errorf("reset left steps %d, episode %d, history %v", m.env.Steps(), m.env.Episode(), m.history)
	}
}

func TestPlayQuit(t *testing.T) {
	m := newTestModel(t, rubikscube.HalfTurn)
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should return tea.Quit", key)
		}
	}

	_, cmd := m.Update(runes("x"))
	if cmd != nil {
		t.Error("unbound key should not return a command")
	}
}
