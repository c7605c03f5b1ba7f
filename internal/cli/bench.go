package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube/internal/bench"
	"github.com/SeamusWaldron/rubikscube/internal/storage"
)

var (
	benchTrials   int
	benchMetric   string
	benchParallel int
	benchSeed     uint64
	benchSave     bool
	benchNotes    string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure turn, observation and solved-check throughput",
	Long: `Time the hot path an RL training loop drives: turn, turn plus
observation, and turn plus observation plus solved check.

Each case runs --trials operations on every one of --parallel independent
cubes. Use --save to keep the results in the database.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&benchTrials, "trials", "n", 1_000_000, "Operations per worker")
	benchCmd.Flags().StringVarP(&benchMetric, "metric", "m", "half_turn", "Move metric (quarter_turn, half_turn)")
	benchCmd.Flags().IntVarP(&benchParallel, "parallel", "p", 1, "Number of cubes turned concurrently")
	benchCmd.Flags().Uint64Var(&benchSeed, "seed", 1, "Seed for the pre-drawn action sequence")
	benchCmd.Flags().BoolVar(&benchSave, "save", false, "Store results in the database")
	benchCmd.Flags().StringVar(&benchNotes, "notes", "", "Notes stored with the run")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	kind, err := resolveMetric(cmd, benchMetric)
	if err != nil {
		return err
	}
	seed, ok := resolveSeed(cmd, benchSeed)
	if !ok {
		seed = benchSeed
	}

	results, err := bench.Run(cmd.Context(), bench.Options{
		Metric:   kind,
		Trials:   benchTrials,
		Parallel: benchParallel,
		Seed:     seed,
	}, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Benchmark (%s, %d x %d)", kind, benchParallel, benchTrials)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-20s %14s %12s %14s %10s", "CASE", "OPS", "NS/OP", "OPS/SEC", "ALLOCS/OP")))
	for _, r := range results {
		fmt.Fprintf(out, "%-20s %14d %12.1f %14.0f %10.2f\n",
			r.Name, r.Ops, r.NsPerOp, r.OpsPerSecond(), r.AllocsPerOp)
	}

	if !benchSave {
		return nil
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs := storage.NewRunRepository(db)
	runID, err := runs.Create(storage.NewRun{
		Kind:   storage.KindBench,
		Metric: kind.String(),
		Seed:   seedPtr(seed, true),
		Notes:  benchNotes,
	})
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	stored := make([]storage.BenchResult, len(results))
	for i, r := range results {
		stored[i] = storage.BenchResult{
			Name:        r.Name,
			Parallel:    benchParallel,
			Ops:         r.Ops,
			Elapsed:     r.Elapsed,
			NsPerOp:     r.NsPerOp,
			AllocsPerOp: r.AllocsPerOp,
		}
	}
	if err := runs.AddBenchResults(runID, stored); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	if err := runs.End(runID); err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, statusStyle.Render("Saved run "+runID))
	return nil
}
