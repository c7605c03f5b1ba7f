package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/rubikscube"
)

func TestOpenMissingFile(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "nested", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Settings() != (Settings{}) {
		t.Errorf("settings = %+v, want empty", f.Settings())
	}
}

func TestSetAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, kv := range [][2]string{
		{"metric", "qtm"},
		{"scramble_moves", "250"},
		{"seed", "7"},
		{"db_path", "/tmp/runs.db"},
	} {
		if err := f.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set(%s): %v", kv[0], err)
		}
	}

	again, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s := again.Settings()
	if s.Metric != "quarter_turn" || s.ScrambleMoves != 250 || s.DBPath != "/tmp/runs.db" {
		t.Errorf("reloaded settings = %+v", s)
	}
	if s.Seed == nil || *s.Seed != 7 {
		t.Errorf("seed = %v, want 7", s.Seed)
	}

	if err := again.Set("seed", ""); err != nil {
		t.Fatal(err)
	}
	if again.Settings().Seed != nil {
		t.Error("empty seed should clear it")
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	f, _ := Open(filepath.Join(t.TempDir(), "config.json"))
	tests := [][2]string{
		{"metric", "slice"},
		{"scramble_moves", "0"},
		{"scramble_moves", "many"},
		{"seed", "-1"},
		{"colour", "red"},
	}
	for _, kv := range tests {
		if err := f.Set(kv[0], kv[1]); !errors.Is(err, rubikscube.ErrInvalidConfiguration) {
			t.Errorf("Set(%s, %s) error = %v, want ErrInvalidConfiguration", kv[0], kv[1], err)
		}
	}
	if f.Settings() != (Settings{}) {
		t.Errorf("rejected values changed settings: %+v", f.Settings())
	}
}

func TestOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"metric":"slice"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, rubikscube.ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}

	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != 5 || keys[0] != "db_path" {
		t.Errorf("Keys() = %v", keys)
	}
}
