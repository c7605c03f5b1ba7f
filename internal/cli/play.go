package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube"
	"github.com/SeamusWaldron/rubikscube/env"
)

var (
	playScramble int
	playSeed     uint64
	playMetric   string
	playNoColor  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Solve a scrambled cube in the terminal",
	Long: `Play the environment interactively. Every key press is one env step.

Keys:
  u d f b r l   clockwise turn
  U D F B R L   counter-clockwise turn
  2             next turn is a half turn (half_turn metric only)
  z             undo the last move
  n             reset with a new scramble
  c             toggle colors
  q             quit`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVarP(&playScramble, "scramble", "s", 20, "Scramble length")
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "Scramble seed")
	playCmd.Flags().StringVarP(&playMetric, "metric", "m", "half_turn", "Move metric (quarter_turn, half_turn)")
	playCmd.Flags().BoolVar(&playNoColor, "no-color", false, "Print plain letters instead of colors")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	kind, err := resolveMetric(cmd, playMetric)
	if err != nil {
		return err
	}
	opts := []env.Option{
		env.WithMetric(kind),
		env.WithScrambleMoves(resolveScramble(cmd, playScramble, 20)),
		env.WithLogger(logger),
	}
	if seed, ok := resolveSeed(cmd, playSeed); ok {
		opts = append(opts, env.WithSeed(seed))
	}

	m, err := newPlayModel(!playNoColor, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

var faceKeys = map[rune]rubikscube.Face{
	'u': rubikscube.FaceU,
	'd': rubikscube.FaceD,
	'f': rubikscube.FaceF,
	'b': rubikscube.FaceB,
	'r': rubikscube.FaceR,
	'l': rubikscube.FaceL,
}

// playModel is the bubbletea model for the play command.
type playModel struct {
	env     *env.Env
	metric  rubikscube.Metric
	color   bool
	double  bool
	history []int
	solved  bool
	message string
	err     error
}

func newPlayModel(color bool, opts ...env.Option) (*playModel, error) {
	e, err := env.New(opts...)
	if err != nil {
		return nil, err
	}
	return &playModel{
		env:    e,
		metric: e.Cube().Metric(),
		color:  color,
	}, nil
}

func (m *playModel) Init() tea.Cmd {
	return nil
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "2":
		m.double = !m.double
		return m, nil
	case "z", "backspace":
		m.undo()
		return m, nil
	case "n":
		m.reset()
		return m, nil
	case "c":
		m.color = !m.color
		return m, nil
	}

	if key.Type != tea.KeyRunes || len(key.Runes) != 1 {
		return m, nil
	}
	r := key.Runes[0]
	turn := rubikscube.CW
	if r >= 'A' && r <= 'Z' {
		turn = rubikscube.CCW
		r += 'a' - 'A'
	}
	face, ok := faceKeys[r]
	if !ok {
		return m, nil
	}
	if m.double {
		turn = rubikscube.Double
		m.double = false
	}
	m.turn(rubikscube.Move{Face: face, Turn: turn})
	return m, nil
}

func (m *playModel) turn(mv rubikscube.Move) {
	action, err := m.metric.ActionOf(mv)
	if err != nil {
		m.err = err
		return
	}
	m.step(action)
	if m.err == nil {
		m.history = append(m.history, action)
		m.message = mv.String()
	}
}

func (m *playModel) step(action int) {
	_, _, done, _, err := m.env.Step(action)
	m.err = err
	if err == nil {
		m.solved = done
	}
}

func (m *playModel) undo() {
	if len(m.history) == 0 {
		return
	}
	last := m.history[len(m.history)-1]
	inv, err := rubikscube.Inverse(m.metric, last)
	if err != nil {
		m.err = err
		return
	}
	m.step(inv)
	if m.err == nil {
		m.history = m.history[:len(m.history)-1]
		mv, _ := m.metric.MoveAt(inv)
		m.message = "undo " + mv.String()
	}
}

func (m *playModel) reset() {
	if _, _, err := m.env.Reset(); err != nil {
		m.err = err
		return
	}
	m.history = m.history[:0]
	m.solved = false
	m.double = false
	m.err = nil
	m.message = "new scramble"
}

func (m *playModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Rubik's Cube - episode %d", m.env.Episode())))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s | steps %d", m.metric.Kind(), m.env.Steps())))
	b.WriteString("\n\n")

	b.WriteString(renderNet(m.env.Cube(), m.color))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.solved:
		b.WriteString(solvedStyle.Render(fmt.Sprintf("Solved in %d steps!", m.env.Steps())))
	case m.message != "":
		b.WriteString(moveStyle.Render(m.message))
	}
	b.WriteString("\n")
	if m.double {
		b.WriteString(statusStyle.Render("half turn armed"))
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("udfbrl: turn | UDFBRL: inverse | 2: half | z: undo | n: new | c: colors | q: quit"))
	return b.String()
}
