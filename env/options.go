package env

import (
	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/rubikscube"
)

// DefaultScrambleMoves is the scramble length applied on construction and
// on every Reset.
const DefaultScrambleMoves = 1000

// Option configures an Env.
type Option func(*config)

type config struct {
	metric          rubikscube.MetricKind
	scrambleMoves   int
	seed            uint64
	seeded          bool
	source          rubikscube.Source
	logger          *log.Logger
	maxEpisodeSteps int
}

func defaultConfig() *config {
	return &config{
		metric:        rubikscube.HalfTurn,
		scrambleMoves: DefaultScrambleMoves,
	}
}

// WithMetric selects the action set. The default is the half-turn metric.
func WithMetric(kind rubikscube.MetricKind) Option {
	return func(c *config) {
		c.metric = kind
	}
}

// WithScrambleMoves sets the number of random moves applied on construction
// and on Reset. It must be positive.
func WithScrambleMoves(n int) Option {
	return func(c *config) {
		c.scrambleMoves = n
	}
}

// WithSeed makes scrambles reproducible.
// Ignored when WithSource is also given.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithSource supplies the random source used for scrambles.
func WithSource(src rubikscube.Source) Option {
	return func(c *config) {
		c.source = src
	}
}

// WithLogger sets the logger for episode events. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMaxEpisodeSteps truncates episodes after n steps. Zero disables the
// limit.
func WithMaxEpisodeSteps(n int) Option {
	return func(c *config) {
		c.maxEpisodeSteps = n
	}
}
