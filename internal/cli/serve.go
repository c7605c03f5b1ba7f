package cli

import (
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube/internal/server"
)

var (
	serveAddr     string
	serveOrigins  []string
	serveScramble int
	serveMaxSteps int
	serveSeed     uint64
	serveMetric   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve environments to remote agents over websockets",
	Long: `Start a websocket server. Each connection on /ws gets its own
environment and drives it with JSON messages:

  {"t":"spec"}                  action space and observation size
  {"t":"reset"}                 new scramble, returns the observation
  {"t":"step","m":{"action":4}} one step
  {"t":"render"}                facelet net

GET /health reports liveness.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "Listen address")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "Allowed browser origins")
	serveCmd.Flags().IntVarP(&serveScramble, "scramble", "s", 20, "Scramble length")
	serveCmd.Flags().IntVar(&serveMaxSteps, "max-steps", 0, "Step limit per episode (0 for none)")
	serveCmd.Flags().Uint64Var(&serveSeed, "seed", 0, "Base seed; connection n uses seed+n")
	serveCmd.Flags().StringVarP(&serveMetric, "metric", "m", "half_turn", "Move metric (quarter_turn, half_turn)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	kind, err := resolveMetric(cmd, serveMetric)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Metric:          kind,
		ScrambleMoves:   resolveScramble(cmd, serveScramble, 20),
		MaxEpisodeSteps: serveMaxSteps,
		AllowOrigins:    serveOrigins,
	}
	if seed, ok := resolveSeed(cmd, serveSeed); ok {
		cfg.Seed = &seed
	}

	addr := serveAddr
	if !cmd.Flags().Changed("addr") && settings.ServeAddr != "" {
		addr = settings.ServeAddr
	}

	logger.Info("serving", "addr", addr, "metric", kind, "scramble", cfg.ScrambleMoves)
	return server.New(cfg, logger).ListenAndServe(cmd.Context(), addr)
}
