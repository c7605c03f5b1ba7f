// Package policy provides agents that choose actions for an environment and
// a rollout loop that drives them.
package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/rubikscube"
	"github.com/SeamusWaldron/rubikscube/env"
)

// Policy chooses the next action from an observation.
type Policy interface {
	// Act returns an action id in [0, actions).
	Act(obs *rubikscube.Observation, step int) (int, error)

	// Close releases any resources held by the policy.
	Close() error
}

// Random picks actions uniformly.
type Random struct {
	src     rubikscube.Source
	actions int
}

// NewRandom returns a uniform policy over actions ids.
func NewRandom(src rubikscube.Source, actions int) *Random {
	return &Random{src: src, actions: actions}
}

func (r *Random) Act(_ *rubikscube.Observation, _ int) (int, error) {
	return r.src.IntN(r.actions), nil
}

func (r *Random) Close() error { return nil }

// Episode summarizes one rollout episode.
type Episode struct {
	Index     int
	Steps     int
	Solved    bool
	Truncated bool
	Reward    float64
	Duration  time.Duration
	Actions   []int
}

// Rollout runs episodes through e, resetting before each one. An episode
// ends when the cube is solved, the step limit is hit, or maxSteps actions
// have been taken (maxSteps <= 0 means no limit of its own).
func Rollout(ctx context.Context, e *env.Env, p Policy, episodes, maxSteps int, logger *log.Logger) ([]Episode, error) {
	if episodes <= 0 {
		return nil, fmt.Errorf("%w: episodes must be positive, got %d", rubikscube.ErrInvalidConfiguration, episodes)
	}

	results := make([]Episode, 0, episodes)
	for i := 0; i < episodes; i++ {
		obs, _, err := e.Reset()
		if err != nil {
			return results, fmt.Errorf("failed to reset environment: %w", err)
		}

		ep := Episode{Index: i}
		start := time.Now()
		for maxSteps <= 0 || ep.Steps < maxSteps {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			action, err := p.Act(&obs, ep.Steps)
			if err != nil {
				return results, fmt.Errorf("policy failed at episode %d step %d: %w", i, ep.Steps, err)
			}

			var reward float64
			var done bool
			var info env.Info
			obs, reward, done, info, err = e.Step(action)
			if err != nil {
				return results, fmt.Errorf("failed to step episode %d: %w", i, err)
			}
			ep.Steps++
			ep.Reward += reward
			ep.Actions = append(ep.Actions, action)

			if done {
				ep.Solved = true
				break
			}
			if info.Truncated {
				ep.Truncated = true
				break
			}
		}
		if !ep.Solved && maxSteps > 0 && ep.Steps >= maxSteps {
			ep.Truncated = true
		}
		ep.Duration = time.Since(start)

		if logger != nil {
			logger.Debug("episode finished",
				"episode", i,
				"steps", ep.Steps,
				"solved", ep.Solved,
				"truncated", ep.Truncated,
			)
		}
		results = append(results, ep)
	}
	return results, nil
}
