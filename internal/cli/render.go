package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube"
)

var (
	renderMoves    string
	renderFacelets string
	renderScramble int
	renderSeed     uint64
	renderMetric   string
	renderColor    bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the facelet net of a cube",
	Long: `Print the unfolded cube after applying --moves, after a random scramble
of --scramble moves, or as read from --facelets: 54 sticker letters given
face by face (U D F B R L), each face row by row.

Examples:
  rubikscube render --moves "R U R' U'"
  rubikscube render --scramble 25 --seed 7 --color
  rubikscube render --facelets "WWWWWWWWW YYYYYYYYY GGGGGGGGG BBBBBBBBB RRRRRRRRR OOOOOOOOO"`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderMoves, "moves", "", "Move sequence to apply, e.g. \"R U R' U'\"")
	renderCmd.Flags().StringVar(&renderFacelets, "facelets", "", "Sticker colors to load, 54 letters from W Y G B R O")
	renderCmd.Flags().IntVarP(&renderScramble, "scramble", "s", 0, "Random scramble length")
	renderCmd.Flags().Uint64Var(&renderSeed, "seed", 0, "Scramble seed")
	renderCmd.Flags().StringVarP(&renderMetric, "metric", "m", "half_turn", "Move metric (quarter_turn, half_turn)")
	renderCmd.Flags().BoolVar(&renderColor, "color", false, "Paint stickers with their colors")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	kind, err := resolveMetric(cmd, renderMetric)
	if err != nil {
		return err
	}
	c, err := rubikscube.New(kind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case renderFacelets != "":
		fc, err := rubikscube.ParseFacelets(renderFacelets)
		if err != nil {
			return err
		}
		s, err := fc.State()
		if err != nil {
			return err
		}
		if err := c.SetState(s); err != nil {
			return err
		}
		if !c.IsSolvable() {
			fmt.Fprintln(out, errorStyle.Render("not solvable: a piece is twisted, flipped or swapped"))
		}
	case renderMoves != "":
		moves, err := rubikscube.ParseMoves(renderMoves)
		if err != nil {
			return err
		}
		if err := c.Apply(moves...); err != nil {
			return err
		}
		fmt.Fprintln(out, moveStyle.Render(rubikscube.FormatMoves(moves)))
	case cmd.Flags().Changed("scramble"):
		seed, ok := resolveSeed(cmd, renderSeed)
		if !ok {
			seed = renderSeed
		}
		actions, err := rubikscube.Scramble(c, rubikscube.NewSource(seed), renderScramble)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, moveStyle.Render(formatActions(c.Metric(), actions)))
	}

	fmt.Fprint(out, renderNet(c, renderColor))
	fmt.Fprintln(out, statusStyle.Render("state  "+c.State().String()))
	if c.Solved() {
		fmt.Fprintln(out, solvedStyle.Render("solved"))
	}
	return nil
}

func formatActions(m rubikscube.Metric, actions []int) string {
	moves := make([]rubikscube.Move, 0, len(actions))
	for _, a := range actions {
		mv, err := m.MoveAt(a)
		if err != nil {
			continue
		}
		moves = append(moves, mv)
	}
	return rubikscube.FormatMoves(moves)
}
