package rubikscube

import (
	"errors"
	"testing"
)

func TestIdentityRepresentation(t *testing.T) {
	c := NewQuarterTurn()
	obs := c.Representation()

	want := map[int]bool{}
	for i := 0; i < NumCorners; i++ {
		want[24*i+3*i] = true
	}
	for j := 0; j < NumEdges; j++ {
		want[192+24*j+2*j] = true
	}

	for k, v := range obs {
		if want[k] && v != 1 {
			t.Errorf("obs[%d] = %d, want 1", k, v)
		}
		if !want[k] && v != 0 {
			t.Errorf("obs[%d] = %d, want 0", k, v)
		}
	}
	if len(obs) != 480 {
		t.Errorf("observation length = %d, want 480", len(obs))
	}
}

func TestRepresentationSumIsTwenty(t *testing.T) {
	src := NewSource(11)
	for _, m := range metrics() {
		c, _ := NewWithMetric(m)
		for i := 0; i < 200; i++ {
			_ = c.Turn(src.IntN(m.MoveCount()))
			obs := c.Representation()
			if n := obs.Sum(); n != 20 {
				t.Fatalf("%s: sum = %d after %d turns, want 20", m.Kind(), n, i+1)
			}
		}
	}
}

func TestRepresentationIsFresh(t *testing.T) {
	c := NewHalfTurn()
	before := c.Representation()
	_ = c.Turn(2)
	after := c.Representation()
	if before == after {
		t.Error("observation should change after F")
	}
	if before != NewHalfTurn().Representation() {
		t.Error("earlier observation was modified by a later turn")
	}
}

func TestRepresentationBlocks(t *testing.T) {
	// R moves URF's corner into UBR with twist 1 and UR's edge into BR.
	c := NewQuarterTurn()
	c.Apply(R)
	obs := c.Representation()
	s := c.State()

	if s.CornerPerm[cornerUBR] != cornerURF || s.CornerOri[cornerUBR] != 1 {
		t.Fatalf("unexpected UBR slot after R: %s", s)
	}
	if obs[24*cornerUBR+3*cornerURF+1] != 1 {
		t.Error("UBR block should encode piece URF with twist 1")
	}
	if s.EdgePerm[edgeBR] != edgeUR {
		t.Fatalf("unexpected BR slot after R: %s", s)
	}
	if obs[192+24*edgeBR+2*edgeUR] != 1 {
		t.Error("BR block should encode piece UR unflipped")
	}
}

func TestAppendRepresentation(t *testing.T) {
	c := NewHalfTurn()
	buf := c.AppendRepresentation(nil)
	_ = c.Turn(5)
	buf = c.AppendRepresentation(buf)

	if len(buf) != 2*ObservationSize {
		t.Fatalf("len = %d, want %d", len(buf), 2*ObservationSize)
	}
	obs := c.Representation()
	for k := range obs {
		if buf[ObservationSize+k] != obs[k] {
			t.Fatalf("appended entry %d = %d, want %d", k, buf[ObservationSize+k], obs[k])
		}
	}
}

func TestDecodeObservation(t *testing.T) {
	c := NewHalfTurn()
	if _, err := Scramble(c, NewSource(5), 40); err != nil {
		t.Fatal(err)
	}
	obs := c.Representation()
	s, err := obs.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if s != c.State() {
		t.Errorf("decoded %s, want %s", s, c.State())
	}

	for k := 0; k < 24; k++ {
		if obs[k] == 0 {
			obs[k] = 1 // second bit in corner slot 0
			break
		}
	}
	if _, err := obs.Decode(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Decode with two bits error = %v, want ErrInvalidState", err)
	}

	var empty Observation
	if _, err := empty.Decode(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Decode of zero observation error = %v, want ErrInvalidState", err)
	}
}
