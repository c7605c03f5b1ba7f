// Package env exposes a cube as a reinforcement learning environment with
// a step/reset/render contract.
//
// Observations are the 480-entry one-hot encoding of the cube. The reward is
// 1 when a step leaves the cube solved and 0 otherwise, and the episode is
// done exactly when the reward is 1.
package env

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/rubikscube"
)

// Info carries per-step metadata. It is empty unless a step limit is set.
type Info struct {
	// Truncated is set when the step limit ended the episode unsolved.
	Truncated bool `json:"truncated,omitempty"`
}

// Env is a single cube environment. It is not safe for concurrent use; run
// one Env per goroutine.
type Env struct {
	cfg    *config
	cube   *rubikscube.Cube
	src    rubikscube.Source
	logger *log.Logger

	scramble []int
	steps    int
	episode  int
}

// New builds a cube for the configured metric and scrambles it.
func New(opts ...Option) (*Env, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.scrambleMoves <= 0 {
		return nil, fmt.Errorf("%w: scramble moves must be positive, got %d",
			rubikscube.ErrInvalidConfiguration, cfg.scrambleMoves)
	}
	if cfg.maxEpisodeSteps < 0 {
		return nil, fmt.Errorf("%w: max episode steps must not be negative, got %d",
			rubikscube.ErrInvalidConfiguration, cfg.maxEpisodeSteps)
	}

	cube, err := rubikscube.New(cfg.metric)
	if err != nil {
		return nil, err
	}

	src := cfg.source
	if src == nil {
		seed := cfg.seed
		if !cfg.seeded {
			seed = rand.Uint64()
		}
		src = rubikscube.NewSource(seed)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Env{
		cfg:      cfg,
		cube:     cube,
		src:      src,
		logger:   logger,
		scramble: make([]int, cfg.scrambleMoves),
	}
	if err := rubikscube.ScrambleInto(cube, src, e.scramble); err != nil {
		return nil, err
	}

	logger.Debug("environment created",
		"metric", cfg.metric,
		"scramble", cfg.scrambleMoves,
		"max_steps", cfg.maxEpisodeSteps,
	)
	return e, nil
}

// Step applies action and reports the new observation, the reward, whether
// the cube is solved and per-step info. An out of range action returns
// rubikscube.ErrOutOfRange and does not count as a step.
func (e *Env) Step(action int) (rubikscube.Observation, float64, bool, Info, error) {
	if err := e.cube.Turn(action); err != nil {
		return rubikscube.Observation{}, 0, false, Info{}, err
	}
	e.steps++

	done := e.cube.Solved()
	reward := 0.0
	if done {
		reward = 1
		e.logger.Debug("episode solved", "episode", e.episode, "steps", e.steps)
	}

	var info Info
	if !done && e.cfg.maxEpisodeSteps > 0 && e.steps >= e.cfg.maxEpisodeSteps {
		info.Truncated = true
		e.logger.Debug("episode truncated", "episode", e.episode, "steps", e.steps)
	}

	return e.cube.Representation(), reward, done, info, nil
}

// Reset scrambles a fresh solved cube and returns its observation.
func (e *Env) Reset() (rubikscube.Observation, Info, error) {
	e.cube.Reset()
	if err := rubikscube.ScrambleInto(e.cube, e.src, e.scramble); err != nil {
		return rubikscube.Observation{}, Info{}, err
	}
	e.steps = 0
	e.episode++
	return e.cube.Representation(), Info{}, nil
}

// Render returns the unfolded facelet net of the cube.
func (e *Env) Render() string {
	return e.cube.String()
}

// RenderTo writes the facelet net to w.
func (e *Env) RenderTo(w io.Writer) error {
	_, err := io.WriteString(w, e.cube.String())
	return err
}

// ActionSpace returns the number of discrete actions.
func (e *Env) ActionSpace() int { return e.cube.Metric().MoveCount() }

// ObservationSize returns the length of each observation.
func (e *Env) ObservationSize() int { return rubikscube.ObservationSize }

// Steps returns the number of steps taken in the current episode.
func (e *Env) Steps() int { return e.steps }

// Episode returns how many times the environment has been reset.
func (e *Env) Episode() int { return e.episode }

// LastScramble returns the actions of the most recent scramble.
// The slice is reused by the next Reset.
func (e *Env) LastScramble() []int { return e.scramble }

// Cube returns the underlying cube. Mutating it affects the environment.
func (e *Env) Cube() *rubikscube.Cube { return e.cube }
