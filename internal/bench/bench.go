// Package bench times the cube hot path: turn, turn plus observation, and
// turn plus observation plus solved check.
package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/rubikscube"
)

// Case is a single timed operation on a cube.
type Case struct {
	Name string
	Op   func(c *rubikscube.Cube, action int) int
}

// Cases returns the standard hot path measurements.
func Cases() []Case {
	return []Case{
		{"turn", func(c *rubikscube.Cube, action int) int {
			_ = c.Turn(action)
			return 0
		}},
		{"turn+repr", func(c *rubikscube.Cube, action int) int {
			_ = c.Turn(action)
			obs := c.Representation()
			return int(obs[0])
		}},
		{"turn+repr+solved", func(c *rubikscube.Cube, action int) int {
			_ = c.Turn(action)
			obs := c.Representation()
			if c.Solved() {
				return int(obs[0]) + 1
			}
			return int(obs[0])
		}},
	}
}

// Options configures a benchmark run.
type Options struct {
	Metric   rubikscube.MetricKind
	Trials   int // operations per worker
	Parallel int // independent cubes, each on its own goroutine
	Seed     uint64
}

// Result summarizes one case.
type Result struct {
	Name        string
	Ops         int64
	Elapsed     time.Duration
	NsPerOp     float64
	AllocsPerOp float64
}

// OpsPerSecond returns the aggregate throughput.
func (r Result) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// Run executes every case in turn. Actions are drawn from a seeded source
// ahead of time so the timed loop does no random number generation.
func Run(ctx context.Context, opts Options, logger *log.Logger) ([]Result, error) {
	if opts.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", rubikscube.ErrInvalidConfiguration, opts.Trials)
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	metric, err := rubikscube.MetricFor(opts.Metric)
	if err != nil {
		return nil, err
	}

	src := rubikscube.NewSource(opts.Seed)
	actions := make([]int, 4096)
	for i := range actions {
		actions[i] = src.IntN(metric.MoveCount())
	}

	var results []Result
	for _, bc := range Cases() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Debug("running benchmark", "case", bc.Name, "trials", opts.Trials, "parallel", opts.Parallel)

		r := runCase(metric, bc, actions, opts.Trials, opts.Parallel)
		logger.Info("benchmark finished",
			"case", r.Name,
			"ns_per_op", fmt.Sprintf("%.2f", r.NsPerOp),
			"allocs_per_op", r.AllocsPerOp,
		)
		results = append(results, r)
	}
	return results, nil
}

func runCase(metric rubikscube.Metric, bc Case, actions []int, trials, parallel int) Result {
	cubes := make([]*rubikscube.Cube, parallel)
	for w := range cubes {
		cubes[w], _ = rubikscube.NewWithMetric(metric)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < parallel; w++ {
		wg.Add(1)
		go func(cube *rubikscube.Cube, offset int) {
			defer wg.Done()
			sink := 0
			for i := 0; i < trials; i++ {
				sink += bc.Op(cube, actions[(i+offset)&(len(actions)-1)])
			}
			_ = sink
		}(cubes[w], w*97)
	}
	wg.Wait()
	elapsed := time.Since(start)

	runtime.ReadMemStats(&after)

	ops := int64(trials) * int64(parallel)
	return Result{
		Name:        bc.Name,
		Ops:         ops,
		Elapsed:     elapsed,
		NsPerOp:     float64(elapsed.Nanoseconds()) * float64(parallel) / float64(ops),
		AllocsPerOp: float64(after.Mallocs-before.Mallocs) / float64(ops),
	}
}
