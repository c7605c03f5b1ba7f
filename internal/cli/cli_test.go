package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command with a private config file and database.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), dir, args...)
}

func executeContext(t *testing.T, ctx context.Context, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args,
		"--config", filepath.Join(dir, "config.json"),
		"--db", filepath.Join(dir, "test.db"),
	))
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

// resetFlags restores every flag to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestRenderMoves(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "render", "--moves", "R")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "      W W G \n") {
		t.Errorf("render R missing U face row:\n%s", out)
	}
	if !strings.Contains(out, "state  ") {
		t.Errorf("render should print the state:\n%s", out)
	}

	out, err = execute(t, dir, "render", "--moves", "R R'")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "solved") {
		t.Errorf("R R' should render solved:\n%s", out)
	}

	if _, err := execute(t, dir, "render", "--moves", "R X"); err == nil {
		t.Error("bad notation should fail")
	}
}

func TestRenderScrambleIsSeeded(t *testing.T) {
	dir := t.TempDir()
	a, err := execute(t, dir, "render", "--scramble", "25", "--seed", "7")
	if err != nil {
		t.Fatal(err)
	}
	b, err := execute(t, dir, "render", "--scramble", "25", "--seed", "7")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same seed rendered differently:\n%s\n%s", a, b)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "config", "set", "metric", "qtm"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dir, "config", "set", "seed", "99"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dir, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "quarter_turn") || !strings.Contains(out, "99") {
		t.Errorf("config show missing saved values:\n%s", out)
	}

	if _, err := execute(t, dir, "config", "set", "colour", "red"); err == nil {
		t.Error("unknown key should fail")
	}

	// Saved metric applies when --metric is not given.
	out, err = execute(t, dir, "render", "--moves", "R2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "R2") {
		t.Errorf("R2 should apply under any metric:\n%s", out)
	}
}

var runIDPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestBenchSaveAndShow(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "bench", "--trials", "200", "--parallel", "2", "--save")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"turn", "turn+repr", "turn+repr+solved"} {
		if !strings.Contains(out, name) {
			t.Errorf("bench output missing case %s:\n%s", name, out)
		}
	}
	id := runIDPattern.FindString(out)
	if id == "" {
		t.Fatalf("no run id in output:\n%s", out)
	}

	out, err = execute(t, dir, "runs", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, id[:8]) || !strings.Contains(out, "bench") {
		t.Errorf("runs list missing %s:\n%s", id, out)
	}

	out, err = execute(t, dir, "runs", "show", id[:8])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "turn+repr+solved") {
		t.Errorf("runs show incomplete:\n%s", out)
	}

	if _, err := execute(t, dir, "runs", "delete", id); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dir, "runs", "show", id); err == nil {
		t.Error("deleted run should not be found")
	}
}

func TestRolloutLuaSave(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "policy.lua")
	err := os.WriteFile(script, []byte(`function act(obs, step, actions) return random(actions) end`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dir, "rollout",
		"--policy", "lua", "--script", script,
		"--episodes", "3", "--max-steps", "5", "--scramble", "4", "--seed", "1",
		"--ngrams", "3", "--save")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "/3 in") {
		t.Errorf("rollout summary missing:\n%s", out)
	}
	if !strings.Contains(out, "Repeated sequences") {
		t.Errorf("n-gram report missing:\n%s", out)
	}
	id := runIDPattern.FindString(out)
	if id == "" {
		t.Fatalf("no run id in output:\n%s", out)
	}

	out, err = execute(t, dir, "runs", "show", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Episodes:   3") || !strings.Contains(out, "lua") {
		t.Errorf("runs show incomplete:\n%s", out)
	}
}

func TestRolloutBadPolicy(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "rollout", "--policy", "greedy"); err == nil {
		t.Error("unknown policy should fail")
	}
	if _, err := execute(t, dir, "rollout", "--policy", "lua"); err == nil {
		t.Error("lua policy without a script should fail")
	}
}

func TestRolloutSeedSurvivesStorage(t *testing.T) {
	dir := t.TempDir()
	const seed = "9223372036854775813" // above the int64 range
	out, err := execute(t, dir, "rollout", "--episodes", "1", "--max-steps", "2", "--seed", seed, "--save")
	if err != nil {
		t.Fatal(err)
	}
	id := runIDPattern.FindString(out)
	if id == "" {
		t.Fatalf("no run id in output:\n%s", out)
	}

	out, err = execute(t, dir, "runs", "show", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Seed:       "+seed+"\n") {
		t.Errorf("runs show should print seed %s:\n%s", seed, out)
	}
}

func TestRunsPrefixIsLiteral(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "bench", "--trials", "10", "--save"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dir, "runs", "delete", "_"); err == nil {
		t.Error("an underscore should not match the only run")
	}
	out, err := execute(t, dir, "runs", "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "No runs found") {
		t.Error("run was deleted through a wildcard prefix")
	}
}

func TestRolloutStopsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// No step limit: only the context can end the episode.
	_, err := executeContext(t, ctx, dir, "rollout", "--episodes", "1", "--max-steps", "0", "--scramble", "20", "--seed", "3")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRenderFacelets(t *testing.T) {
	dir := t.TempDir()
	solved := "WWWWWWWWW YYYYYYYYY GGGGGGGGG BBBBBBBBB RRRRRRRRR OOOOOOOOO"
	out, err := execute(t, dir, "render", "--facelets", solved)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "solved") {
		t.Errorf("solved stickers should render solved:\n%s", out)
	}

	// URF twisted in place still renders, flagged as unsolvable.
	twisted := "WWWWWWWWG YYYYYYYYY GGRGGGGGG BBBBBBBBB WRRRRRRRR OOOOOOOOO"
	out, err = execute(t, dir, "render", "--facelets", twisted)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not solvable") {
		t.Errorf("twisted corner should be flagged:\n%s", out)
	}

	swapped := "WWWWWWWWW YYYYYYYYY GGGGOGGGG BBBBBBBBB RRRRRRRRR OOOOGOOOO"
	if _, err := execute(t, dir, "render", "--facelets", swapped); err == nil {
		t.Error("swapped centers should fail")
	}
}
