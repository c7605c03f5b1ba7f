package env

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/SeamusWaldron/rubikscube"
)

// constSource always draws the same action.
type constSource int

func (c constSource) IntN(n int) int { return int(c) % n }

func TestNewDefaults(t *testing.T) {
	e, err := New(WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	if e.ActionSpace() != 18 {
		t.Errorf("ActionSpace = %d, want 18", e.ActionSpace())
	}
	if e.ObservationSize() != 480 {
		t.Errorf("ObservationSize = %d, want 480", e.ObservationSize())
	}
	if len(e.LastScramble()) != DefaultScrambleMoves {
		t.Errorf("scramble length = %d, want %d", len(e.LastScramble()), DefaultScrambleMoves)
	}
	if e.Steps() != 0 || e.Episode() != 0 {
		t.Error("new environment should have no steps or resets")
	}
}

func TestNewQuarterTurn(t *testing.T) {
	e, err := New(WithMetric(rubikscube.QuarterTurn), WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	if e.ActionSpace() != 12 {
		t.Errorf("ActionSpace = %d, want 12", e.ActionSpace())
	}
}

func TestNewInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero scramble", []Option{WithScrambleMoves(0)}},
		{"negative scramble", []Option{WithScrambleMoves(-5)}},
		{"unknown metric", []Option{WithMetric(rubikscube.MetricKind(7))}},
		{"negative step limit", []Option{WithMaxEpisodeSteps(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); !errors.Is(err, rubikscube.ErrInvalidConfiguration) {
				t.Errorf("New error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestStepSolvesOneMoveScramble(t *testing.T) {
	// Scramble is a single R (action 4); R' (action 10) solves it.
	e, err := New(WithScrambleMoves(1), WithSource(constSource(4)))
	if err != nil {
		t.Fatal(err)
	}
	if e.Cube().Solved() {
		t.Fatal("one-move scramble should not be solved")
	}

	obs, reward, done, info, err := e.Step(10)
	if err != nil {
		t.Fatal(err)
	}
	if reward != 1 || !done {
		t.Errorf("reward = %v, done = %v; want 1, true", reward, done)
	}
	if info != (Info{}) {
		t.Errorf("info = %+v, want empty", info)
	}
	if obs != rubikscube.NewHalfTurn().Representation() {
		t.Error("solved step should return the identity observation")
	}
	if e.Steps() != 1 {
		t.Errorf("Steps = %d, want 1", e.Steps())
	}
}

func TestStepUnsolvedReward(t *testing.T) {
	e, err := New(WithScrambleMoves(1), WithSource(constSource(4)))
	if err != nil {
		t.Fatal(err)
	}
	obs, reward, done, _, err := e.Step(4)
	if err != nil {
		t.Fatal(err)
	}
	if reward != 0 || done {
		t.Errorf("reward = %v, done = %v; want 0, false", reward, done)
	}
	if obs != e.Cube().Representation() {
		t.Error("step observation should match the cube")
	}
	if obs.Sum() != 20 {
		t.Errorf("observation sum = %d, want 20", obs.Sum())
	}
}

func TestStepOutOfRange(t *testing.T) {
	e, err := New(WithSeed(3), WithScrambleMoves(10))
	if err != nil {
		t.Fatal(err)
	}
	before := e.Cube().State()
	if _, _, _, _, err := e.Step(18); !errors.Is(err, rubikscube.ErrOutOfRange) {
		t.Errorf("Step(18) error = %v, want ErrOutOfRange", err)
	}
	if e.Cube().State() != before || e.Steps() != 0 {
		t.Error("rejected step should not change the environment")
	}
}

// Reset hands back the evaluated observation, the same value Step returns,
// and never a deferred accessor that the caller would have to invoke.
func TestResetReturnsObservationValue(t *testing.T) {
	e, err := New(WithSeed(9), WithScrambleMoves(20))
	if err != nil {
		t.Fatal(err)
	}
	_, _, _, _, _ = e.Step(0)

	obs, info, err := e.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if info != (Info{}) {
		t.Errorf("info = %+v, want empty", info)
	}
	if obs.Sum() != 20 {
		t.Errorf("reset observation sum = %d, want 20", obs.Sum())
	}
	if obs != e.Cube().Representation() {
		t.Error("reset observation should encode the scrambled cube")
	}
	if e.Steps() != 0 || e.Episode() != 1 {
		t.Errorf("after reset steps = %d, episode = %d", e.Steps(), e.Episode())
	}

	// The returned value is a copy and does not follow later steps.
	snapshot := obs
	_, _, _, _, _ = e.Step(1)
	if obs != snapshot {
		t.Error("reset observation changed after a step")
	}
}

func TestResetReplaysScramble(t *testing.T) {
	e, err := New(WithSeed(5), WithScrambleMoves(50))
	if err != nil {
		t.Fatal(err)
	}
	obs, _, err := e.Reset()
	if err != nil {
		t.Fatal(err)
	}

	c := rubikscube.NewHalfTurn()
	for _, a := range e.LastScramble() {
		_ = c.Turn(a)
	}
	if c.Representation() != obs {
		t.Error("reset should scramble from the solved state")
	}
}

func TestSeedIsReproducible(t *testing.T) {
	a, _ := New(WithSeed(42))
	b, _ := New(WithSeed(42))
	if !a.Cube().Equal(b.Cube()) {
		t.Fatal("same seed should give the same initial scramble")
	}
	oa, _, _ := a.Reset()
	ob, _, _ := b.Reset()
	if oa != ob {
		t.Error("same seed should give the same reset scramble")
	}
}

func TestMaxEpisodeSteps(t *testing.T) {
	e, err := New(WithScrambleMoves(1), WithSource(constSource(4)), WithMaxEpisodeSteps(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, info, _ := e.Step(0); info.Truncated {
		t.Error("first step should not be truncated")
	}
	if _, _, done, info, _ := e.Step(0); !info.Truncated || done {
		t.Errorf("second step truncated = %v, done = %v", info.Truncated, done)
	}
}

func TestRender(t *testing.T) {
	e, err := New(WithSeed(1), WithScrambleMoves(5))
	if err != nil {
		t.Fatal(err)
	}
	out := e.Render()
	if strings.Count(out, "\n") != 9 {
		t.Errorf("render should have 9 lines:\n%s", out)
	}

	var buf bytes.Buffer
	if err := e.RenderTo(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != out {
		t.Error("RenderTo should write the same net as Render")
	}
}
