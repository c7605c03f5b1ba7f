package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube"
	"github.com/SeamusWaldron/rubikscube/env"
	"github.com/SeamusWaldron/rubikscube/internal/analysis"
	"github.com/SeamusWaldron/rubikscube/internal/policy"
	"github.com/SeamusWaldron/rubikscube/internal/storage"
)

var (
	rolloutPolicy   string
	rolloutScript   string
	rolloutEpisodes int
	rolloutMaxSteps int
	rolloutScramble int
	rolloutSeed     uint64
	rolloutMetric   string
	rolloutSave     bool
	rolloutNotes    string
	rolloutNGrams   int
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Run policy episodes against scrambled cubes",
	Long: `Roll out a policy for a number of episodes. Each episode resets the
environment, scrambling the cube, and steps until the cube is solved or the
step limit is reached.

Policies:
  random  uniform random actions
  lua     a script defining act(obs, step, actions) (requires --script)`,
	RunE: runRollout,
}

func init() {
	rolloutCmd.Flags().StringVar(&rolloutPolicy, "policy", "random", "Policy to run (random, lua)")
	rolloutCmd.Flags().StringVar(&rolloutScript, "script", "", "Lua policy script")
	rolloutCmd.Flags().IntVarP(&rolloutEpisodes, "episodes", "e", 10, "Number of episodes")
	rolloutCmd.Flags().IntVar(&rolloutMaxSteps, "max-steps", 100, "Step limit per episode")
	rolloutCmd.Flags().IntVarP(&rolloutScramble, "scramble", "s", 20, "Scramble length")
	rolloutCmd.Flags().Uint64Var(&rolloutSeed, "seed", 0, "Seed for scrambles and the policy")
	rolloutCmd.Flags().StringVarP(&rolloutMetric, "metric", "m", "half_turn", "Move metric (quarter_turn, half_turn)")
	rolloutCmd.Flags().BoolVar(&rolloutSave, "save", false, "Store episodes in the database")
	rolloutCmd.Flags().StringVar(&rolloutNotes, "notes", "", "Notes stored with the run")
	rolloutCmd.Flags().IntVar(&rolloutNGrams, "ngrams", 0, "Report the top K repeated action sequences of length 2-4")
	rootCmd.AddCommand(rolloutCmd)
}

func runRollout(cmd *cobra.Command, args []string) error {
	kind, err := resolveMetric(cmd, rolloutMetric)
	if err != nil {
		return err
	}
	scramble := resolveScramble(cmd, rolloutScramble, 20)
	seed, seeded := resolveSeed(cmd, rolloutSeed)

	opts := []env.Option{
		env.WithMetric(kind),
		env.WithScrambleMoves(scramble),
		env.WithMaxEpisodeSteps(rolloutMaxSteps),
		env.WithLogger(logger),
	}
	if seeded {
		opts = append(opts, env.WithSeed(seed))
	}
	e, err := env.New(opts...)
	if err != nil {
		return err
	}

	p, err := newPolicy(seed, seeded, e.ActionSpace())
	if err != nil {
		return err
	}
	defer p.Close()

	episodes, err := policy.Rollout(cmd.Context(), e, p, rolloutEpisodes, rolloutMaxSteps, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Rollout (%s policy, %s, scramble %d)", rolloutPolicy, kind, scramble)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-8s %8s %-8s %10s", "EPISODE", "STEPS", "RESULT", "DURATION")))

	solved := 0
	var total time.Duration
	for _, ep := range episodes {
		result := statusStyle.Render("failed")
		switch {
		case ep.Solved:
			solved++
			result = solvedStyle.Render("solved")
		case ep.Truncated:
			result = statusStyle.Render("limit")
		}
		total += ep.Duration
		fmt.Fprintf(out, "%-8d %8d %-8s %10s\n", ep.Index, ep.Steps, result, ep.Duration.Round(time.Microsecond))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Solved %d/%d in %s\n", solved, len(episodes), total.Round(time.Millisecond))

	if rolloutNGrams > 0 {
		if err := printNGrams(out, e.Cube().Metric(), episodes, rolloutNGrams); err != nil {
			return err
		}
	}

	if !rolloutSave {
		return nil
	}
	return saveRollout(cmd, kind, scramble, seedPtr(seed, seeded), episodes)
}

func newPolicy(seed uint64, seeded bool, actions int) (policy.Policy, error) {
	var src rubikscube.Source
	if seeded {
		// Keep the policy stream apart from the scramble stream.
		src = rubikscube.NewSource(^seed)
	} else {
		src = rubikscube.NewSource(uint64(time.Now().UnixNano()))
	}

	switch rolloutPolicy {
	case "random":
		return policy.NewRandom(src, actions), nil
	case "lua":
		if rolloutScript == "" {
			return nil, fmt.Errorf("--script is required for the lua policy")
		}
		code, err := os.ReadFile(rolloutScript)
		if err != nil {
			return nil, fmt.Errorf("failed to read script: %w", err)
		}
		return policy.NewLua(string(code), src, actions)
	default:
		return nil, fmt.Errorf("unknown policy %q (use random or lua)", rolloutPolicy)
	}
}

func saveRollout(cmd *cobra.Command, kind rubikscube.MetricKind, scramble int, seed *int64, episodes []policy.Episode) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs := storage.NewRunRepository(db)
	runID, err := runs.Create(storage.NewRun{
		Kind:          storage.KindRollout,
		Metric:        kind.String(),
		Seed:          seed,
		ScrambleMoves: scramble,
		Policy:        rolloutPolicy,
		Notes:         rolloutNotes,
	})
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	stored := make([]storage.Episode, len(episodes))
	for i, ep := range episodes {
		stored[i] = storage.Episode{
			Episode:   ep.Index,
			Steps:     ep.Steps,
			Solved:    ep.Solved,
			Truncated: ep.Truncated,
			Reward:    ep.Reward,
			Duration:  ep.Duration,
		}
	}
	if err := storage.NewEpisodeRepository(db).CreateBatch(runID, stored); err != nil {
		return fmt.Errorf("failed to save episodes: %w", err)
	}
	if err := runs.End(runID); err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), statusStyle.Render("Saved run "+runID))
	return nil
}

func printNGrams(out io.Writer, m rubikscube.Metric, episodes []policy.Episode, topK int) error {
	seqs := make([][]int, len(episodes))
	for i, ep := range episodes {
		seqs[i] = ep.Actions
	}
	report, err := analysis.MineNGrams(m, seqs, 2, 4, topK)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Repeated sequences"))
	if len(report.TopNGrams) == 0 {
		fmt.Fprintln(out, statusStyle.Render("none"))
		return nil
	}
	for n := 2; n <= 4; n++ {
		for _, ng := range report.TopNGrams[n] {
			fmt.Fprintf(out, "  %s x%d\n", moveStyle.Render(fmt.Sprintf("%-16s", ng.Sequence)), ng.Count)
		}
	}
	return nil
}
