package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube/internal/storage"
)

var (
	runsLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and inspect saved runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run's results",
	Long:  "Show a saved run. Any unique prefix of the run ID is accepted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum runs to list")
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := storage.NewRunRepository(db).List(runsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found")
		return nil
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-8s  %-8s  %-12s  %-7s  %-19s  %s", "ID", "KIND", "METRIC", "POLICY", "STARTED", "DURATION")))
	for _, r := range runs {
		policy := "-"
		if r.Policy != nil {
			policy = *r.Policy
		}
		duration := "running"
		if r.DurationMs != nil {
			duration = fmt.Sprintf("%dms", *r.DurationMs)
		}
		fmt.Fprintf(out, "%-8s  %-8s  %-12s  %-7s  %-19s  %s\n",
			r.RunID[:8], r.Kind, r.Metric, policy,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), duration)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(db, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printRun(out, run)

	switch run.Kind {
	case storage.KindBench:
		results, err := storage.NewRunRepository(db).BenchResults(run.RunID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-20s %8s %14s %12s %10s", "CASE", "PARALLEL", "OPS", "NS/OP", "ALLOCS/OP")))
		for _, r := range results {
			fmt.Fprintf(out, "%-20s %8d %14d %12.1f %10.2f\n", r.Name, r.Parallel, r.Ops, r.NsPerOp, r.AllocsPerOp)
		}

	case storage.KindRollout:
		stats, err := storage.NewEpisodeRepository(db).Stats(run.RunID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Episodes:   %d\n", stats.Episodes)
		fmt.Fprintf(out, "Solved:     %d (%.1f%%)\n", stats.Solved, 100*stats.SolveRate())
		fmt.Fprintf(out, "Truncated:  %d\n", stats.Truncated)
		fmt.Fprintf(out, "Avg steps:  %.1f\n", stats.AvgSteps)
	}
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(db, args[0])
	if err != nil {
		return err
	}
	if err := storage.NewRunRepository(db).Delete(run.RunID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", run.RunID)
	return nil
}

func findRun(db *storage.DB, prefix string) (*storage.Run, error) {
	run, err := storage.NewRunRepository(db).FindByPrefix(prefix)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run not found: %s", prefix)
	}
	return run, nil
}

func printRun(out io.Writer, r *storage.Run) {
	fmt.Fprintln(out, titleStyle.Render("Run "+r.RunID))
	fmt.Fprintf(out, "Kind:       %s\n", r.Kind)
	fmt.Fprintf(out, "Metric:     %s\n", r.Metric)
	if r.Seed != nil {
		fmt.Fprintf(out, "Seed:       %s\n", seedString(*r.Seed))
	}
	if r.ScrambleMoves > 0 {
		fmt.Fprintf(out, "Scramble:   %d\n", r.ScrambleMoves)
	}
	if r.Policy != nil {
		fmt.Fprintf(out, "Policy:     %s\n", *r.Policy)
	}
	fmt.Fprintf(out, "Started:    %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if r.DurationMs != nil {
		fmt.Fprintf(out, "Duration:   %dms\n", *r.DurationMs)
	}
	if r.Notes != nil {
		fmt.Fprintf(out, "Notes:      %s\n", *r.Notes)
	}
}
